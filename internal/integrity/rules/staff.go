package rules

import (
	"context"
	"fmt"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

// StaffRules validates hired staff records.
func StaffRules() []integrity.Rule {
	return []integrity.Rule{
		integrity.NewRule("staff.status_valid",
			"staff status must be one of the known lifecycle states",
			100, nil,
			func(_ context.Context, s *domain.Staff, _ *integrity.Context) ([]integrity.Issue, error) {
				if s.Status.Valid() {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindStaff,
					EntityID: s.ID,
					Field:    "status",
					Message:  fmt.Sprintf("Invalid staff status: %q", s.Status),
					Repair: &integrity.RepairCommand{
						Kind:       integrity.RepairSetStaffStatus,
						EntityKind: domain.KindStaff,
						EntityID:   s.ID,
						GuildID:    s.GuildID,
						Field:      "status",
						Params:     map[string]string{"status": string(domain.StaffStatusInactive)},
					},
				}}, nil
			}),

		integrity.NewRule("staff.role_valid",
			"staff role must exist in the practice hierarchy",
			90, nil,
			func(_ context.Context, s *domain.Staff, _ *integrity.Context) ([]integrity.Issue, error) {
				if s.Role.Valid() {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityCritical,
					Kind:     domain.KindStaff,
					EntityID: s.ID,
					Field:    "role",
					Message:  fmt.Sprintf("Unknown staff role: %q", s.Role),
				}}, nil
			}),

		integrity.NewRule("staff.hired_by_known",
			"staff records must name the actor who hired them",
			50, nil,
			func(_ context.Context, s *domain.Staff, _ *integrity.Context) ([]integrity.Issue, error) {
				if s.HiredBy != "" {
					return nil, nil
				}
				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindStaff,
					EntityID: s.ID,
					Field:    "hired_by",
					Message:  "Staff record has no hiring actor",
				}}, nil
			}),

		integrity.NewRule("staff.member_present",
			"the staff member's platform account must still exist in the guild",
			40, []string{"staff.status_valid"},
			func(ctx context.Context, s *domain.Staff, vc *integrity.Context) ([]integrity.Issue, error) {
				if !vc.Strict() {
					return nil, nil
				}
				// Terminated staff keep their record after leaving.
				if s.Status == domain.StaffStatusTerminated {
					return nil, nil
				}

				exists, err := vc.Checker.MemberExists(ctx, s.GuildID, s.UserID)
				if err != nil {
					return nil, err
				}
				if exists {
					return nil, nil
				}

				return []integrity.Issue{{
					Severity: integrity.SeverityWarning,
					Kind:     domain.KindStaff,
					EntityID: s.ID,
					Field:    "user_id",
					Message:  "Staff member is no longer present in the guild",
					Repair: &integrity.RepairCommand{
						Kind:       integrity.RepairSetStaffStatus,
						EntityKind: domain.KindStaff,
						EntityID:   s.ID,
						GuildID:    s.GuildID,
						Field:      "status",
						Params:     map[string]string{"status": string(domain.StaffStatusTerminated)},
					},
				}}, nil
			}),
	}
}
