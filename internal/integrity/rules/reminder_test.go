package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

func activeReminder() *domain.Reminder {
	return &domain.Reminder{
		ID:           "rem1",
		GuildID:      "g1",
		UserID:       "u1",
		ChannelID:    "ch-1",
		Message:      "File the motion",
		ScheduledFor: time.Now().Add(time.Hour),
		Active:       true,
	}
}

func TestReminderRules(t *testing.T) {
	t.Parallel()

	t.Run("pending reminder is clean", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		assert.Empty(t, h.run(activeReminder(), nil))
	})

	t.Run("empty message is advisory", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		r := activeReminder()
		r.Message = ""

		issues := h.run(r, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, "message", issues[0].Field)
		assert.Equal(t, integrity.SeverityWarning, issues[0].Severity)
	})

	t.Run("vanished channel repairable in strict mode", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		r := activeReminder()

		issues := h.run(r, &integrity.Context{
			GuildID: "g1",
			Level:   integrity.LevelStrict,
			Checker: &stubChecker{channels: map[string]bool{}},
		})

		require.Len(t, issues, 1)
		assert.Equal(t, "channel_id", issues[0].Field)
		assert.Equal(t, integrity.RepairClearReminderChannel, issues[0].Repair.Kind)
	})

	t.Run("inactive reminder exempt from channel check", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		r := activeReminder()
		r.Active = false

		issues := h.run(r, &integrity.Context{
			GuildID: "g1",
			Level:   integrity.LevelStrict,
			Checker: &stubChecker{channels: map[string]bool{}},
		})

		assert.Empty(t, issues)
	})

	t.Run("long overdue active reminder repairable by deactivation", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		r := activeReminder()
		r.ScheduledFor = time.Now().Add(-45 * 24 * time.Hour)

		issues := h.run(r, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, "scheduled_for", issues[0].Field)
		require.True(t, issues[0].CanAutoRepair())
		assert.Equal(t, integrity.RepairDeactivateReminder, issues[0].Repair.Kind)
	})

	t.Run("recently overdue reminder tolerated", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		r := activeReminder()
		r.ScheduledFor = time.Now().Add(-3 * 24 * time.Hour)

		assert.Empty(t, h.run(r, nil))
	})

	t.Run("delivered reminder never stale", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		r := activeReminder()
		r.Active = false
		deliveredAt := time.Now().Add(-40 * 24 * time.Hour)
		r.DeliveredAt = &deliveredAt
		r.ScheduledFor = time.Now().Add(-45 * 24 * time.Hour)

		assert.Empty(t, h.run(r, nil))
	})
}
