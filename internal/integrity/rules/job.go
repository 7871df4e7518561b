package rules

import (
	"context"
	"fmt"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

// JobRules validates job postings.
func JobRules() []integrity.Rule {
	return []integrity.Rule{
		integrity.NewRule("job.role_valid",
			"a job must hire into a role the practice hierarchy knows",
			100, nil,
			func(_ context.Context, j *domain.Job, _ *integrity.Context) ([]integrity.Issue, error) {
				if j.StaffRole.Valid() {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindJob,
					EntityID: j.ID,
					Field:    "staff_role",
					Message:  fmt.Sprintf("Job hires into unknown staff role: %q", j.StaffRole),
				}}, nil
			}),

		integrity.NewRule("job.open_requires_role",
			"an open job must carry the platform role granted on hire",
			80, []string{"job.role_valid"},
			func(_ context.Context, j *domain.Job, vc *integrity.Context) ([]integrity.Issue, error) {
				if !j.IsOpen {
					return nil, nil
				}
				// An unknown staff role already blocks hiring; flagging the
				// platform role as well is noise until that is fixed.
				if len(vc.Findings("job.role_valid")) > 0 {
					return nil, nil
				}
				if j.RoleID != "" {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindJob,
					EntityID: j.ID,
					Field:    "role_id",
					Message:  "Open job has no platform role to grant on hire",
				}}, nil
			}),

		integrity.NewRule("job.questions_present",
			"an open job should carry at least one application question",
			50, nil,
			func(_ context.Context, j *domain.Job, _ *integrity.Context) ([]integrity.Issue, error) {
				if !j.IsOpen || len(j.Questions) > 0 {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindJob,
					EntityID: j.ID,
					Field:    "questions",
					Message:  "Open job has no application questions",
				}}, nil
			}),
	}
}
