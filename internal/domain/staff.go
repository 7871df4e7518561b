package domain

import (
	"context"
	"time"
)

type StaffStatus string

const (
	StaffStatusActive     StaffStatus = "active"
	StaffStatusInactive   StaffStatus = "inactive"
	StaffStatusTerminated StaffStatus = "terminated"
)

func (s StaffStatus) Valid() bool {
	switch s {
	case StaffStatusActive, StaffStatusInactive, StaffStatusTerminated:
		return true
	default:
		return false
	}
}

type StaffRole string

const (
	RoleManagingPartner StaffRole = "managing_partner"
	RoleSeniorPartner   StaffRole = "senior_partner"
	RoleJuniorPartner   StaffRole = "junior_partner"
	RoleSeniorAssociate StaffRole = "senior_associate"
	RoleJuniorAssociate StaffRole = "junior_associate"
	RoleParalegal       StaffRole = "paralegal"
)

// roleLevels orders the practice hierarchy. Exactly one role per level:
// level comparisons between two distinct roles are always decisive.
var roleLevels = map[StaffRole]int{
	RoleManagingPartner: 6,
	RoleSeniorPartner:   5,
	RoleJuniorPartner:   4,
	RoleSeniorAssociate: 3,
	RoleJuniorAssociate: 2,
	RoleParalegal:       1,
}

func (r StaffRole) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the hierarchy level of the role, 0 for unknown roles.
func (r StaffRole) Level() int {
	return roleLevels[r]
}

// Staff is a hired member of the practice within one guild.
type Staff struct {
	ID             string
	GuildID        string
	UserID         string
	Username       string
	Role           StaffRole
	Status         StaffStatus
	HiredAt        time.Time
	HiredBy        string // user ID of the hiring actor
	PromotionCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s *Staff) EntityID() string { return s.ID }

func (*Staff) EntityKind() Kind { return KindStaff }

type StaffRepository interface {
	FindByGuild(ctx context.Context, guildID string) ([]*Staff, error)
	FindByID(ctx context.Context, id string) (*Staff, error)
	FindByUserID(ctx context.Context, guildID, userID string) (*Staff, error)
	UpdateStatus(ctx context.Context, id string, status StaffStatus) error
}
