package rules

import (
	"context"
	"fmt"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

// FeedbackRules validates client feedback records.
func FeedbackRules() []integrity.Rule {
	return []integrity.Rule{
		integrity.NewRule("feedback.rating_range",
			"ratings are a 1-5 star scale",
			100, nil,
			func(_ context.Context, f *domain.Feedback, _ *integrity.Context) ([]integrity.Issue, error) {
				if f.Rating >= 1 && f.Rating <= 5 {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindFeedback,
					EntityID: f.ID,
					Field:    "rating",
					Message:  fmt.Sprintf("Feedback rating %d is outside the 1-5 scale", f.Rating),
				}}, nil
			}),

		integrity.NewRule("feedback.self_review",
			"staff cannot rate themselves",
			50, nil,
			func(_ context.Context, f *domain.Feedback, _ *integrity.Context) ([]integrity.Issue, error) {
				if f.TargetStaffID == "" || f.SubmitterID != f.TargetStaffID {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindFeedback,
					EntityID: f.ID,
					Field:    "target_staff_id",
					Message:  "Feedback submitter rated themselves",
				}}, nil
			}),
	}
}
