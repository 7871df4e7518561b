package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditDetails carries the structured payload of an audit entry.
type AuditDetails struct {
	Before   map[string]any `json:"before,omitempty"`
	After    map[string]any `json:"after,omitempty"`
	Reason   string         `json:"reason"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type AuditEntry struct {
	ID         uuid.UUID
	GuildID    string
	ActorType  string // "user", "system"
	ActorID    string
	Action     string
	TargetKind string
	TargetID   string
	Details    AuditDetails
	CreatedAt  time.Time
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListByGuild(ctx context.Context, guildID string, limit, offset int) ([]*AuditEntry, error)
}
