package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

func TestFeedbackRules(t *testing.T) {
	t.Parallel()

	valid := func() *domain.Feedback {
		return &domain.Feedback{
			ID:            "f1",
			GuildID:       "g1",
			SubmitterID:   "client-1",
			TargetStaffID: "lawyer-1",
			Rating:        4,
			Comment:       "Prompt and thorough.",
		}
	}

	t.Run("valid feedback is clean", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)

		assert.Empty(t, h.run(valid(), nil))
	})

	t.Run("out-of-scale ratings are critical", func(t *testing.T) {
		t.Parallel()

		for _, rating := range []int{0, -1, 6, 11} {
			h := newHarness(t)
			f := valid()
			f.Rating = rating

			issues := h.run(f, nil)

			require.Len(t, issues, 1, "rating %d", rating)
			assert.Equal(t, integrity.SeverityCritical, issues[0].Severity)
			assert.Equal(t, "rating", issues[0].Field)
		}
	})

	t.Run("self review flagged", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		f := valid()
		f.TargetStaffID = f.SubmitterID

		issues := h.run(f, nil)

		require.Len(t, issues, 1)
		assert.Equal(t, integrity.SeverityWarning, issues[0].Severity)
		assert.Equal(t, "Feedback submitter rated themselves", issues[0].Message)
	})

	t.Run("practice-wide feedback has no self review", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		f := valid()
		f.TargetStaffID = ""

		assert.Empty(t, h.run(f, nil))
	})
}
