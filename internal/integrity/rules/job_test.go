package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

func validJob() *domain.Job {
	return &domain.Job{
		ID:        "j1",
		GuildID:   "g1",
		Title:     "Junior Associate",
		StaffRole: domain.RoleJuniorAssociate,
		RoleID:    "role-123",
		IsOpen:    true,
		Questions: []string{"Why do you want to join?"},
		PostedBy:  "u1",
	}
}

func TestJobRules(t *testing.T) {
	t.Parallel()

	t.Run("valid open job is clean", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		assert.Empty(t, h.run(validJob(), nil))
	})

	t.Run("unknown staff role is critical", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		j := validJob()
		j.StaffRole = "of_counsel"

		issues := h.run(j, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, "staff_role", issues[0].Field)
		assert.Equal(t, integrity.SeverityCritical, issues[0].Severity)
	})

	t.Run("open job without platform role is critical", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		j := validJob()
		j.RoleID = ""

		issues := h.run(j, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, "role_id", issues[0].Field)
	})

	t.Run("role check stands down when the staff role is already flagged", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		j := validJob()
		j.StaffRole = "of_counsel"
		j.RoleID = ""

		issues := h.run(j, nil)

		assert.Equal(t, []string{"staff_role"}, fieldsOf(issues))
	})

	t.Run("closed job exempt from posting checks", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		j := validJob()
		j.IsOpen = false
		j.RoleID = ""
		j.Questions = nil

		assert.Empty(t, h.run(j, nil))
	})

	t.Run("open job without questions is advisory", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		j := validJob()
		j.Questions = nil

		issues := h.run(j, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, integrity.SeverityWarning, issues[0].Severity)
		assert.Equal(t, "questions", issues[0].Field)
	})
}
