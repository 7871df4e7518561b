package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

func validApplication() *domain.Application {
	return &domain.Application{
		ID:          "a1",
		GuildID:     "g1",
		JobID:       "j1",
		ApplicantID: "u1",
		Status:      domain.ApplicationStatusPending,
		CreatedAt:   time.Now().Add(-time.Hour),
	}
}

func TestApplicationRules(t *testing.T) {
	t.Parallel()

	t.Run("valid application is clean", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.jobs.byID["j1"] = &domain.Job{ID: "j1", GuildID: "g1"}

		assert.Empty(t, h.run(validApplication(), nil))
	})

	t.Run("invalid status resets to pending", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.jobs.byID["j1"] = &domain.Job{ID: "j1", GuildID: "g1"}

		a := validApplication()
		a.Status = "shortlisted"

		issues := h.run(a, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, integrity.SeverityCritical, issues[0].Severity)
		require.True(t, issues[0].CanAutoRepair())
		assert.Equal(t, integrity.RepairSetApplicationStatus, issues[0].Repair.Kind)
		assert.Equal(t, string(domain.ApplicationStatusPending), issues[0].Repair.Params["status"])
	})

	t.Run("missing applicant is critical", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.jobs.byID["j1"] = &domain.Job{ID: "j1", GuildID: "g1"}

		a := validApplication()
		a.ApplicantID = ""

		issues := h.run(a, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, "applicant_id", issues[0].Field)
		assert.Equal(t, integrity.SeverityCritical, issues[0].Severity)
	})

	t.Run("empty job reference is critical, vanished job a warning", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		blank := validApplication()
		blank.JobID = ""
		issues := h.run(blank, nil)
		require.Len(t, issues, 1)
		assert.Equal(t, integrity.SeverityCritical, issues[0].Severity)
		assert.Equal(t, "Application has no job reference", issues[0].Message)

		gone := validApplication()
		gone.ID = "a2"
		gone.JobID = "j-deleted"
		issues = h.run(gone, nil)
		require.Len(t, issues, 1)
		assert.Equal(t, integrity.SeverityWarning, issues[0].Severity)
		assert.Equal(t, "Application references a job that no longer exists", issues[0].Message)
	})

	t.Run("job resolved from warmed lookup without repository calls", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		a := validApplication()

		vc := &integrity.Context{
			GuildID: "g1",
			Related: &integrity.Related{
				JobsByID: map[string]*domain.Job{"j1": {ID: "j1", GuildID: "g1"}},
			},
		}

		assert.Empty(t, h.run(a, vc))
	})
}
