package rules_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

type stubChecker struct {
	channels map[string]bool
	members  map[string]bool
}

func (c *stubChecker) GuildExists(ctx context.Context, _ string) (bool, error) { return true, nil }

func (c *stubChecker) ChannelExists(_ context.Context, _, channelID string) (bool, error) {
	return c.channels[channelID], nil
}

func (c *stubChecker) MemberExists(_ context.Context, _, userID string) (bool, error) {
	return c.members[userID], nil
}

func validStaff() *domain.Staff {
	return &domain.Staff{
		ID:      "s1",
		GuildID: "g1",
		UserID:  "u1",
		Role:    domain.RoleSeniorAssociate,
		Status:  domain.StaffStatusActive,
		HiredAt: time.Now().Add(-time.Hour),
		HiredBy: "boss",
	}
}

func TestStaffRules(t *testing.T) {
	t.Parallel()

	t.Run("valid staff is clean", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		assert.Empty(t, h.run(validStaff(), nil))
	})

	t.Run("invalid status yields one repairable critical", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		s := validStaff()
		s.Status = "on_sabbatical"

		issues := h.run(s, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, integrity.SeverityCritical, issues[0].Severity)
		assert.Contains(t, issues[0].Message, "Invalid staff status")
		require.True(t, issues[0].CanAutoRepair())
		assert.Equal(t, integrity.RepairSetStaffStatus, issues[0].Repair.Kind)
		assert.Equal(t, string(domain.StaffStatusInactive), issues[0].Repair.Params["status"])
	})

	t.Run("unknown role is critical without repair", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		s := validStaff()
		s.Role = "intern"

		issues := h.run(s, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, "role", issues[0].Field)
		assert.Equal(t, integrity.SeverityCritical, issues[0].Severity)
		assert.False(t, issues[0].CanAutoRepair())
	})

	t.Run("missing hiring actor is advisory", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		s := validStaff()
		s.HiredBy = ""

		issues := h.run(s, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, integrity.SeverityWarning, issues[0].Severity)
		assert.Equal(t, "hired_by", issues[0].Field)
	})

	t.Run("departed member flagged only in strict mode", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		s := validStaff()

		checker := &stubChecker{members: map[string]bool{}}

		lenient := h.run(s, &integrity.Context{GuildID: "g1"})
		assert.Empty(t, lenient)

		// Fresh harness: the lenient result is cached per entity.
		h2 := newHarness(t)
		strict := h2.run(s, &integrity.Context{
			GuildID: "g1",
			Level:   integrity.LevelStrict,
			Checker: checker,
		})

		require.Len(t, strict, 1)
		assert.Equal(t, "user_id", strict[0].Field)
		require.True(t, strict[0].CanAutoRepair())
		assert.Equal(t, string(domain.StaffStatusTerminated), strict[0].Repair.Params["status"])
	})

	t.Run("terminated staff exempt from the presence check", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		s := validStaff()
		s.Status = domain.StaffStatusTerminated

		issues := h.run(s, &integrity.Context{
			GuildID: "g1",
			Level:   integrity.LevelStrict,
			Checker: &stubChecker{members: map[string]bool{}},
		})

		assert.Empty(t, issues)
	})

	t.Run("present member passes strict mode", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		s := validStaff()

		issues := h.run(s, &integrity.Context{
			GuildID: "g1",
			Level:   integrity.LevelStrict,
			Checker: &stubChecker{members: map[string]bool{"u1": true}},
		})

		assert.Empty(t, issues)
	})
}
