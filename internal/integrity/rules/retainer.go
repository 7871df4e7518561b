package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

// RetainerRules validates representation agreements.
func RetainerRules(deps Deps) []integrity.Rule {
	return []integrity.Rule{
		integrity.NewRule("retainer.status_valid",
			"retainer status must be one of the known agreement states",
			100, nil,
			func(_ context.Context, r *domain.Retainer, _ *integrity.Context) ([]integrity.Issue, error) {
				if r.Status.Valid() {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindRetainer,
					EntityID: r.ID,
					Field:    "status",
					Message:  fmt.Sprintf("Invalid retainer status: %q", r.Status),
				}}, nil
			}),

		integrity.NewRule("retainer.lawyer_is_staff",
			"the retained lawyer must be an active staff member",
			60, nil,
			func(ctx context.Context, r *domain.Retainer, vc *integrity.Context) ([]integrity.Issue, error) {
				if r.LawyerID == "" {
					return nil, nil
				}

				lawyer, found, warmed := vc.Related.StaffMember(r.LawyerID)
				if !warmed {
					var err error
					lawyer, err = deps.Staff.FindByUserID(ctx, r.GuildID, r.LawyerID)
					switch {
					case errors.Is(err, domain.ErrNotFound):
						found = false
					case err != nil:
						return nil, err
					default:
						found = true
					}
				}

				if found && lawyer.Status == domain.StaffStatusActive {
					return nil, nil
				}

				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindRetainer,
					EntityID: r.ID,
					Field:    "lawyer_id",
					Message:  "Retained lawyer is not an active staff member",
				}}, nil
			}),

		integrity.NewRule("retainer.signed_fields",
			"a signed retainer must carry the signature timestamp and client name",
			50, []string{"retainer.status_valid"},
			func(_ context.Context, r *domain.Retainer, vc *integrity.Context) ([]integrity.Issue, error) {
				// An invalid status is already flagged; the signature
				// fields cannot be judged against a status we do not trust.
				if len(vc.Findings("retainer.status_valid")) > 0 {
					return nil, nil
				}
				if r.Status != domain.RetainerStatusSigned {
					return nil, nil
				}

				var issues []integrity.Issue
				if r.SignedAt == nil {
					issues = append(issues, integrity.Issue{
						Severity: integrity.SeverityWarning,
						Kind:     domain.KindRetainer,
						EntityID: r.ID,
						Field:    "signed_at",
						Message:  "Signed retainer has no signature timestamp",
					})
				}
				if r.ClientName == "" {
					issues = append(issues, integrity.Issue{
						Severity: integrity.SeverityWarning,
						Kind:     domain.KindRetainer,
						EntityID: r.ID,
						Field:    "client_name",
						Message:  "Signed retainer has no client signature name",
					})
				}

				return issues, nil
			}),
	}
}
