package domain

import (
	"context"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// Application is a member's submission against an open job posting.
type Application struct {
	ID          string
	GuildID     string
	JobID       string
	ApplicantID string
	Status      ApplicationStatus
	Answers     []string
	ReviewedBy  string
	ReviewedAt  *time.Time
	CreatedAt   time.Time
}

func (a *Application) EntityID() string { return a.ID }

func (*Application) EntityKind() Kind { return KindApplication }

type ApplicationRepository interface {
	FindByGuild(ctx context.Context, guildID string) ([]*Application, error)
	FindByID(ctx context.Context, id string) (*Application, error)
	UpdateStatus(ctx context.Context, id string, status ApplicationStatus) error
}
