package domain

import (
	"context"
	"slices"
	"time"
)

type CaseStatus string

const (
	CaseStatusPending CaseStatus = "pending"
	CaseStatusOpen    CaseStatus = "open"
	CaseStatusClosed  CaseStatus = "closed"
)

func (s CaseStatus) Valid() bool {
	switch s {
	case CaseStatusPending, CaseStatusOpen, CaseStatusClosed:
		return true
	default:
		return false
	}
}

type CasePriority string

const (
	CasePriorityLow    CasePriority = "low"
	CasePriorityMedium CasePriority = "medium"
	CasePriorityHigh   CasePriority = "high"
	CasePriorityUrgent CasePriority = "urgent"
)

// CaseFile is a client matter tracked in a dedicated guild channel.
type CaseFile struct {
	ID                string
	GuildID           string
	CaseNumber        string
	ClientID          string
	Title             string
	Status            CaseStatus
	Priority          CasePriority
	LeadAttorneyID    string // user ID, empty when unassigned
	AssignedLawyerIDs []string
	ChannelID         string
	Result            string
	CreatedAt         time.Time
	ClosedAt          *time.Time
	UpdatedAt         time.Time
}

func (c *CaseFile) EntityID() string { return c.ID }

func (*CaseFile) EntityKind() Kind { return KindCase }

// HasAssignedLawyer reports whether userID is in the assigned-lawyer set.
func (c *CaseFile) HasAssignedLawyer(userID string) bool {
	return slices.Contains(c.AssignedLawyerIDs, userID)
}

type CaseRepository interface {
	FindByGuild(ctx context.Context, guildID string) ([]*CaseFile, error)
	FindByID(ctx context.Context, id string) (*CaseFile, error)
	// SetChannelID updates the case channel reference; empty clears it.
	SetChannelID(ctx context.Context, id, channelID string) error
	// SetLeadAttorney updates the lead attorney reference; empty clears it.
	SetLeadAttorney(ctx context.Context, id, userID string) error
	// AddAssignedLawyer adds userID to the assigned set. Adding a user
	// already present is a no-op, not an error.
	AddAssignedLawyer(ctx context.Context, id, userID string) error
}
