package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

// CaseRules validates client case files.
func CaseRules(deps Deps) []integrity.Rule {
	return []integrity.Rule{
		integrity.NewRule("case.status_valid",
			"case status must be one of the known lifecycle states",
			100, nil,
			func(_ context.Context, c *domain.CaseFile, _ *integrity.Context) ([]integrity.Issue, error) {
				if c.Status.Valid() {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindCase,
					EntityID: c.ID,
					Field:    "status",
					Message:  fmt.Sprintf("Invalid case status: %q", c.Status),
				}}, nil
			}),

		integrity.NewRule("case.client_set",
			"a case must reference the client it represents",
			90, nil,
			func(_ context.Context, c *domain.CaseFile, _ *integrity.Context) ([]integrity.Issue, error) {
				if c.ClientID != "" {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindCase,
					EntityID: c.ID,
					Field:    "client_id",
					Message:  "Case has no client reference",
				}}, nil
			}),

		integrity.NewRule("case.lead_is_staff",
			"the lead attorney must be an active staff member",
			60, nil,
			func(ctx context.Context, c *domain.CaseFile, vc *integrity.Context) ([]integrity.Issue, error) {
				if c.LeadAttorneyID == "" {
					return nil, nil
				}

				lead, found, warmed := vc.Related.StaffMember(c.LeadAttorneyID)
				if !warmed {
					var err error
					lead, err = deps.Staff.FindByUserID(ctx, c.GuildID, c.LeadAttorneyID)
					switch {
					case errors.Is(err, domain.ErrNotFound):
						found = false
					case err != nil:
						return nil, err
					default:
						found = true
					}
				}

				if found && lead.Status == domain.StaffStatusActive {
					return nil, nil
				}

				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindCase,
					EntityID: c.ID,
					Field:    "lead_attorney_id",
					Message:  "Lead attorney is not an active staff member",
					Repair: &integrity.RepairCommand{
						Kind:       integrity.RepairClearLeadAttorney,
						EntityKind: domain.KindCase,
						EntityID:   c.ID,
						GuildID:    c.GuildID,
						Field:      "lead_attorney_id",
					},
				}}, nil
			}),

		integrity.NewRule("case.channel_present",
			"the case channel must still exist on the platform",
			40, []string{"case.status_valid"},
			func(ctx context.Context, c *domain.CaseFile, vc *integrity.Context) ([]integrity.Issue, error) {
				if !vc.Strict() || c.ChannelID == "" {
					return nil, nil
				}
				// A case already flagged with a broken status gets fixed
				// before its channel reference is worth checking.
				if len(vc.Findings("case.status_valid")) > 0 {
					return nil, nil
				}

				exists, err := vc.Checker.ChannelExists(ctx, c.GuildID, c.ChannelID)
				if err != nil {
					return nil, err
				}
				if exists {
					return nil, nil
				}

				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindCase,
					EntityID: c.ID,
					Field:    "channel_id",
					Message:  "Case channel no longer exists",
					Repair: &integrity.RepairCommand{
						Kind:       integrity.RepairClearCaseChannel,
						EntityKind: domain.KindCase,
						EntityID:   c.ID,
						GuildID:    c.GuildID,
						Field:      "channel_id",
					},
				}}, nil
			}),
	}
}
