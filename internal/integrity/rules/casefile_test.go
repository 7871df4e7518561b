package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

func validCase() *domain.CaseFile {
	return &domain.CaseFile{
		ID:         "c1",
		GuildID:    "g1",
		CaseNumber: "2026-001",
		ClientID:   "client-1",
		Title:      "Contract dispute",
		Status:     domain.CaseStatusOpen,
		Priority:   domain.CasePriorityMedium,
		CreatedAt:  time.Now().Add(-24 * time.Hour),
	}
}

func TestCaseRules(t *testing.T) {
	t.Parallel()

	t.Run("valid case is clean", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		assert.Empty(t, h.run(validCase(), nil))
	})

	t.Run("invalid status and missing client both flagged", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		c := validCase()
		c.Status = "appealed"
		c.ClientID = ""

		issues := h.run(c, nil)

		require.Len(t, issues, 2)
		assert.Equal(t, []string{"status", "client_id"}, fieldsOf(issues))
		for _, issue := range issues {
			assert.Equal(t, integrity.SeverityCritical, issue.Severity)
		}
	})

	t.Run("lead attorney resolved from warmed lookup", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		c := validCase()
		c.LeadAttorneyID = "lawyer-1"

		vc := &integrity.Context{
			GuildID: "g1",
			Related: &integrity.Related{
				StaffByUserID: map[string]*domain.Staff{
					"lawyer-1": {ID: "s1", GuildID: "g1", UserID: "lawyer-1", Status: domain.StaffStatusActive},
				},
			},
		}

		assert.Empty(t, h.run(c, vc))
	})

	t.Run("warmed lookup is authoritative for absences", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		// The repository knows the lawyer, but the warmed set does not:
		// the warmed set wins.
		h.staff.byUserID["lawyer-1"] = &domain.Staff{
			ID: "s1", GuildID: "g1", UserID: "lawyer-1", Status: domain.StaffStatusActive,
		}

		c := validCase()
		c.LeadAttorneyID = "lawyer-1"

		vc := &integrity.Context{
			GuildID: "g1",
			Related: &integrity.Related{StaffByUserID: map[string]*domain.Staff{}},
		}

		issues := h.run(c, vc)

		require.Len(t, issues, 1)
		assert.Equal(t, "lead_attorney_id", issues[0].Field)
	})

	t.Run("inactive lead attorney is repairable", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.staff.byUserID["lawyer-1"] = &domain.Staff{
			ID: "s1", GuildID: "g1", UserID: "lawyer-1", Status: domain.StaffStatusInactive,
		}

		c := validCase()
		c.LeadAttorneyID = "lawyer-1"

		issues := h.run(c, nil)

		require.Len(t, issues, 1)
		require.True(t, issues[0].CanAutoRepair())
		assert.Equal(t, integrity.RepairClearLeadAttorney, issues[0].Repair.Kind)
	})

	t.Run("unassigned lead is fine", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		c := validCase()
		c.LeadAttorneyID = ""

		assert.Empty(t, h.run(c, nil))
	})

	t.Run("missing channel flagged only when status is trusted", func(t *testing.T) {
		t.Parallel()

		checker := &stubChecker{channels: map[string]bool{}}

		h := newHarness(t)
		c := validCase()
		c.ChannelID = "ch-gone"

		issues := h.run(c, &integrity.Context{
			GuildID: "g1",
			Level:   integrity.LevelStrict,
			Checker: checker,
		})

		require.Len(t, issues, 1)
		assert.Equal(t, "channel_id", issues[0].Field)
		assert.Equal(t, integrity.RepairClearCaseChannel, issues[0].Repair.Kind)

		// With a broken status the channel check stands down.
		h2 := newHarness(t)
		c2 := validCase()
		c2.ChannelID = "ch-gone"
		c2.Status = "appealed"

		issues2 := h2.run(c2, &integrity.Context{
			GuildID: "g1",
			Level:   integrity.LevelStrict,
			Checker: checker,
		})

		assert.Equal(t, []string{"status"}, fieldsOf(issues2))
	})

	t.Run("live channel passes strict mode", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		c := validCase()
		c.ChannelID = "ch-1"

		issues := h.run(c, &integrity.Context{
			GuildID: "g1",
			Level:   integrity.LevelStrict,
			Checker: &stubChecker{channels: map[string]bool{"ch-1": true}},
		})

		assert.Empty(t, issues)
	})
}
