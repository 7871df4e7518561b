package domain

import (
	"context"
	"time"
)

// Feedback is a client rating of one staff member, or of the practice as a
// whole when TargetStaffID is empty.
type Feedback struct {
	ID            string
	GuildID       string
	SubmitterID   string
	SubmitterName string
	TargetStaffID string // user ID of the rated staff member
	Rating        int    // 1-5
	Comment       string
	CreatedAt     time.Time
}

func (f *Feedback) EntityID() string { return f.ID }

func (*Feedback) EntityKind() Kind { return KindFeedback }

type FeedbackRepository interface {
	FindByGuild(ctx context.Context, guildID string) ([]*Feedback, error)
}
