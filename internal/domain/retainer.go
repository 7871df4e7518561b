package domain

import (
	"context"
	"time"
)

type RetainerStatus string

const (
	RetainerStatusPending   RetainerStatus = "pending"
	RetainerStatusSigned    RetainerStatus = "signed"
	RetainerStatusCancelled RetainerStatus = "cancelled"
)

func (s RetainerStatus) Valid() bool {
	switch s {
	case RetainerStatusPending, RetainerStatusSigned, RetainerStatusCancelled:
		return true
	default:
		return false
	}
}

// Retainer is a representation agreement between a client and a lawyer.
type Retainer struct {
	ID            string
	GuildID       string
	ClientID      string
	LawyerID      string // user ID of the retained lawyer
	Status        RetainerStatus
	AgreementText string
	ClientName    string // signature name captured on signing
	SignedAt      *time.Time
	CreatedAt     time.Time
}

func (r *Retainer) EntityID() string { return r.ID }

func (*Retainer) EntityKind() Kind { return KindRetainer }

type RetainerRepository interface {
	FindByGuild(ctx context.Context, guildID string) ([]*Retainer, error)
	FindByID(ctx context.Context, id string) (*Retainer, error)
}
