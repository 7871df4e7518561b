package rules

import (
	"context"
	"time"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

// staleReminderAge is how far past its schedule an undelivered reminder can
// be before it is considered abandoned.
const staleReminderAge = 30 * 24 * time.Hour

// ReminderRules validates scheduled reminders.
func ReminderRules() []integrity.Rule {
	return []integrity.Rule{
		integrity.NewRule("reminder.message_present",
			"a reminder must have something to say",
			100, nil,
			func(_ context.Context, r *domain.Reminder, _ *integrity.Context) ([]integrity.Issue, error) {
				if r.Message != "" {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindReminder,
					EntityID: r.ID,
					Field:    "message",
					Message:  "Reminder has an empty message",
				}}, nil
			}),

		integrity.NewRule("reminder.channel_present",
			"the delivery channel must still exist on the platform",
			60, nil,
			func(ctx context.Context, r *domain.Reminder, vc *integrity.Context) ([]integrity.Issue, error) {
				if !vc.Strict() || !r.Active || r.ChannelID == "" {
					return nil, nil
				}

				exists, err := vc.Checker.ChannelExists(ctx, r.GuildID, r.ChannelID)
				if err != nil {
					return nil, err
				}
				if exists {
					return nil, nil
				}

				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindReminder,
					EntityID: r.ID,
					Field:    "channel_id",
					Message:  "Reminder delivery channel no longer exists",
					Repair: &integrity.RepairCommand{
						Kind:       integrity.RepairClearReminderChannel,
						EntityKind: domain.KindReminder,
						EntityID:   r.ID,
						GuildID:    r.GuildID,
						Field:      "channel_id",
					},
				}}, nil
			}),

		integrity.NewRule("reminder.stale_active",
			"an active reminder far past its schedule was never delivered",
			50, nil,
			func(_ context.Context, r *domain.Reminder, _ *integrity.Context) ([]integrity.Issue, error) {
				if !r.Active || r.ScheduledFor.IsZero() {
					return nil, nil
				}
				if time.Since(r.ScheduledFor) <= staleReminderAge {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindReminder,
					EntityID: r.ID,
					Field:    "scheduled_for",
					Message:  "Active reminder is long past its scheduled delivery",
					Repair: &integrity.RepairCommand{
						Kind:       integrity.RepairDeactivateReminder,
						EntityKind: domain.KindReminder,
						EntityID:   r.ID,
						GuildID:    r.GuildID,
						Field:      "active",
					},
				}}, nil
			}),
	}
}
