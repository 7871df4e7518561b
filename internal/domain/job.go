package domain

import (
	"context"
	"time"
)

// Job is a posting that members apply against; accepted applicants are
// hired into StaffRole.
type Job struct {
	ID          string
	GuildID     string
	Title       string
	Description string
	StaffRole   StaffRole
	RoleID      string // platform role granted on hire
	IsOpen      bool
	Questions   []string
	PostedBy    string
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

func (j *Job) EntityID() string { return j.ID }

func (*Job) EntityKind() Kind { return KindJob }

type JobRepository interface {
	FindByGuild(ctx context.Context, guildID string) ([]*Job, error)
	FindByID(ctx context.Context, id string) (*Job, error)
}
