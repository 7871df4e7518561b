package domain

import (
	"context"
	"time"
)

// Reminder is a scheduled one-shot message, optionally tied to a case.
type Reminder struct {
	ID           string
	GuildID      string
	UserID       string
	ChannelID    string
	CaseID       string // empty when not case-bound
	Message      string
	ScheduledFor time.Time
	Active       bool
	DeliveredAt  *time.Time
	CreatedAt    time.Time
}

func (r *Reminder) EntityID() string { return r.ID }

func (*Reminder) EntityKind() Kind { return KindReminder }

type ReminderRepository interface {
	FindByGuild(ctx context.Context, guildID string) ([]*Reminder, error)
	FindByID(ctx context.Context, id string) (*Reminder, error)
	// SetChannelID updates the delivery channel reference; empty clears it.
	SetChannelID(ctx context.Context, id, channelID string) error
	// Deactivate marks the reminder inactive. Deactivating an already
	// inactive reminder is a no-op, not an error.
	Deactivate(ctx context.Context, id string) error
}
