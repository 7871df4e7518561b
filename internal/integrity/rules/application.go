package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

// ApplicationRules validates job applications.
func ApplicationRules(deps Deps) []integrity.Rule {
	return []integrity.Rule{
		integrity.NewRule("application.status_valid",
			"application status must be one of the known review states",
			100, nil,
			func(_ context.Context, a *domain.Application, _ *integrity.Context) ([]integrity.Issue, error) {
				if a.Status.Valid() {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindApplication,
					EntityID: a.ID,
					Field:    "status",
					Message:  fmt.Sprintf("Invalid application status: %q", a.Status),
					Repair: &integrity.RepairCommand{
						Kind:       integrity.RepairSetApplicationStatus,
						EntityKind: domain.KindApplication,
						EntityID:   a.ID,
						GuildID:    a.GuildID,
						Field:      "status",
						Params:     map[string]string{"status": string(domain.ApplicationStatusPending)},
					},
				}}, nil
			}),

		integrity.NewRule("application.applicant_set",
			"an application must reference its applicant",
			90, nil,
			func(_ context.Context, a *domain.Application, _ *integrity.Context) ([]integrity.Issue, error) {
				if a.ApplicantID != "" {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindApplication,
					EntityID: a.ID,
					Field:    "applicant_id",
					Message:  "Application has no applicant reference",
				}}, nil
			}),

		integrity.NewRule("application.job_exists",
			"an application must reference a job posting that exists",
			60, nil,
			func(ctx context.Context, a *domain.Application, vc *integrity.Context) ([]integrity.Issue, error) {
				if a.JobID == "" {
					return []integrity.Issue{{
						Severity: integrity.SeverityCritical,
						Kind:     domain.KindApplication,
						EntityID: a.ID,
						Field:    "job_id",
						Message:  "Application has no job reference",
					}}, nil
				}

				_, found, warmed := vc.Related.Job(a.JobID)
				if !warmed {
					_, err := deps.Jobs.FindByID(ctx, a.JobID)
					switch {
					case errors.Is(err, domain.ErrNotFound):
						found = false
					case err != nil:
						return nil, err
					default:
						found = true
					}
				}

				if found {
					return nil, nil
				}

				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindApplication,
					EntityID: a.ID,
					Field:    "job_id",
					Message:  "Application references a job that no longer exists",
				}}, nil
			}),
	}
}
