package integrity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/praetorlabs/praetor/internal/domain"
)

// Repositories bundles the seven collections the engine reads and repairs.
type Repositories struct {
	Staff        domain.StaffRepository
	Cases        domain.CaseRepository
	Applications domain.ApplicationRepository
	Jobs         domain.JobRepository
	Retainers    domain.RetainerRepository
	Feedback     domain.FeedbackRepository
	Reminders    domain.ReminderRepository
}

// EventPublisher receives scan lifecycle events. Satisfied by the redis
// pubsub store.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// ScanChannel is the pubsub channel carrying scan completion events for a
// guild.
func ScanChannel(guildID string) string {
	return "integrity:" + guildID
}

// Scanner produces integrity reports over every entity of every kind in a
// guild. Scans never fail: per-collection fetch errors degrade the report
// (that kind contributes zero entities) and a total backend outage yields
// an empty report, so callers inspect counts rather than catch errors.
type Scanner struct {
	repos     Repositories
	validator *Validator
	executor  *Executor
	publisher EventPublisher // optional
}

func NewScanner(repos Repositories, validator *Validator, executor *Executor, publisher EventPublisher) *Scanner {
	return &Scanner{
		repos:     repos,
		validator: validator,
		executor:  executor,
		publisher: publisher,
	}
}

// Scan validates all entities for the guild and runs the cross-entity
// checks that belong to no single rule set.
func (s *Scanner) Scan(ctx context.Context, guildID string, vc *Context) *Report {
	return s.scan(ctx, guildID, vc, false)
}

// DeepScan additionally re-validates relationships needing two-hop lookups
// (feedback targets, reminder cases) that are too expensive to run on every
// scan.
func (s *Scanner) DeepScan(ctx context.Context, guildID string, vc *Context) *Report {
	return s.scan(ctx, guildID, vc, true)
}

func (s *Scanner) scan(ctx context.Context, guildID string, vc *Context, deep bool) *Report {
	if vc == nil {
		vc = &Context{}
	}
	if vc.GuildID == "" {
		scoped := *vc
		scoped.GuildID = guildID
		vc = &scoped
	}

	report := &Report{
		ID:        uuid.New(),
		GuildID:   guildID,
		Deep:      deep,
		StartedAt: time.Now(),
	}

	snap := s.fetchAll(ctx, guildID)
	report.TotalEntitiesScanned = snap.total()

	report.Issues = s.validateAll(ctx, snap, vc)
	report.Issues = append(report.Issues, s.crossChecks(snap)...)

	if deep {
		report.Issues = append(report.Issues, s.deepChecks(ctx, guildID, snap)...)
	}

	report.finalize(time.Now())
	s.publish(ctx, report)

	return report
}

// guildSnapshot is one scan's view of the guild's collections. A nil slice
// means that collection could not be fetched this run.
type guildSnapshot struct {
	staff        []*domain.Staff
	cases        []*domain.CaseFile
	applications []*domain.Application
	jobs         []*domain.Job
	retainers    []*domain.Retainer
	feedback     []*domain.Feedback
	reminders    []*domain.Reminder
}

func (g *guildSnapshot) total() int {
	return len(g.staff) + len(g.cases) + len(g.applications) + len(g.jobs) +
		len(g.retainers) + len(g.feedback) + len(g.reminders)
}

func (g *guildSnapshot) entities() []domain.Entity {
	out := make([]domain.Entity, 0, g.total())
	for _, e := range g.staff {
		out = append(out, e)
	}
	for _, e := range g.cases {
		out = append(out, e)
	}
	for _, e := range g.applications {
		out = append(out, e)
	}
	for _, e := range g.jobs {
		out = append(out, e)
	}
	for _, e := range g.retainers {
		out = append(out, e)
	}
	for _, e := range g.feedback {
		out = append(out, e)
	}
	for _, e := range g.reminders {
		out = append(out, e)
	}
	return out
}

// fetchAll pulls the seven collections through the bounded executor. A
// collection whose fetch fails is logged and contributes zero entities;
// the remaining six are still scanned.
func (s *Scanner) fetchAll(ctx context.Context, guildID string) *guildSnapshot {
	snap := &guildSnapshot{}

	var wg sync.WaitGroup

	fetch := func(kind domain.Kind, fn func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.executor.Do(ctx, fn); err != nil {
				log.Error().Err(err).Str("guild_id", guildID).Str("entity_type", string(kind)).
					Msg("integrity: collection fetch failed, skipping for this scan")
			}
		}()
	}

	fetch(domain.KindStaff, func(ctx context.Context) error {
		list, err := s.repos.Staff.FindByGuild(ctx, guildID)
		if err != nil {
			return err
		}
		snap.staff = list
		return nil
	})
	fetch(domain.KindCase, func(ctx context.Context) error {
		list, err := s.repos.Cases.FindByGuild(ctx, guildID)
		if err != nil {
			return err
		}
		snap.cases = list
		return nil
	})
	fetch(domain.KindApplication, func(ctx context.Context) error {
		list, err := s.repos.Applications.FindByGuild(ctx, guildID)
		if err != nil {
			return err
		}
		snap.applications = list
		return nil
	})
	fetch(domain.KindJob, func(ctx context.Context) error {
		list, err := s.repos.Jobs.FindByGuild(ctx, guildID)
		if err != nil {
			return err
		}
		snap.jobs = list
		return nil
	})
	fetch(domain.KindRetainer, func(ctx context.Context) error {
		list, err := s.repos.Retainers.FindByGuild(ctx, guildID)
		if err != nil {
			return err
		}
		snap.retainers = list
		return nil
	})
	fetch(domain.KindFeedback, func(ctx context.Context) error {
		list, err := s.repos.Feedback.FindByGuild(ctx, guildID)
		if err != nil {
			return err
		}
		snap.feedback = list
		return nil
	})
	fetch(domain.KindReminder, func(ctx context.Context) error {
		list, err := s.repos.Reminders.FindByGuild(ctx, guildID)
		if err != nil {
			return err
		}
		snap.reminders = list
		return nil
	})

	wg.Wait()

	return snap
}

// validateAll runs the per-entity rule sets through the executor. Issue
// order within one entity is the rule order; no ordering is guaranteed
// between entities.
func (s *Scanner) validateAll(ctx context.Context, snap *guildSnapshot, vc *Context) []Issue {
	var (
		mu     sync.Mutex
		issues []Issue
		wg     sync.WaitGroup
	)

	for _, entity := range snap.entities() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.executor.Do(ctx, func(ctx context.Context) error {
				found := s.validator.Validate(ctx, entity, vc)
				if len(found) == 0 {
					return nil
				}
				mu.Lock()
				issues = append(issues, found...)
				mu.Unlock()
				return nil
			})
		}()
	}

	wg.Wait()

	return issues
}

// crossChecks covers invariants spanning fields no single rule owns. They
// run after per-entity validation so they read the same snapshot state.
func (s *Scanner) crossChecks(snap *guildSnapshot) []Issue {
	var issues []Issue

	for _, st := range snap.staff {
		if st.HiredBy != "" && st.HiredBy == st.UserID {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Kind:     domain.KindStaff,
				EntityID: st.ID,
				Field:    "hired_by",
				Message:  "Staff member is recorded as their own hiring actor",
			})
		}
	}

	for _, cf := range snap.cases {
		if cf.LeadAttorneyID != "" && !cf.HasAssignedLawyer(cf.LeadAttorneyID) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Kind:     domain.KindCase,
				EntityID: cf.ID,
				Field:    "lead_attorney_id",
				Message:  "Lead attorney is not in the case's assigned lawyer list",
				Repair: &RepairCommand{
					Kind:       RepairAssignLeadAttorney,
					EntityKind: domain.KindCase,
					EntityID:   cf.ID,
					GuildID:    cf.GuildID,
					Field:      "assigned_lawyer_ids",
					Params:     map[string]string{"user_id": cf.LeadAttorneyID},
				},
			})
		}
		if cf.ClosedAt != nil && cf.ClosedAt.Before(cf.CreatedAt) {
			issues = append(issues, Issue{
				Severity: SeverityCritical,
				Kind:     domain.KindCase,
				EntityID: cf.ID,
				Field:    "closed_at",
				Message:  "Case closed timestamp precedes its creation timestamp",
			})
		}
	}

	for _, app := range snap.applications {
		if app.ReviewedAt != nil && app.ReviewedAt.Before(app.CreatedAt) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Kind:     domain.KindApplication,
				EntityID: app.ID,
				Field:    "reviewed_at",
				Message:  "Application review timestamp precedes its creation timestamp",
			})
		}
	}

	return issues
}

// deepChecks re-validates two-hop relationships with one repository lookup
// per distinct referenced ID.
func (s *Scanner) deepChecks(ctx context.Context, guildID string, snap *guildSnapshot) []Issue {
	var issues []Issue

	missingStaff := s.missingStaffTargets(ctx, guildID, snap.feedback)
	for _, fb := range snap.feedback {
		if fb.TargetStaffID == "" || !missingStaff[fb.TargetStaffID] {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Kind:     domain.KindFeedback,
			EntityID: fb.ID,
			Field:    "target_staff_id",
			Message:  "Feedback references a staff member that no longer exists",
		})
	}

	missingCases := s.missingReminderCases(ctx, snap.reminders)
	for _, rem := range snap.reminders {
		if rem.CaseID == "" || !missingCases[rem.CaseID] {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Kind:     domain.KindReminder,
			EntityID: rem.ID,
			Field:    "case_id",
			Message:  "Reminder references a case that no longer exists",
			Repair: &RepairCommand{
				Kind:       RepairDeactivateReminder,
				EntityKind: domain.KindReminder,
				EntityID:   rem.ID,
				GuildID:    rem.GuildID,
				Field:      "active",
			},
		})
	}

	return issues
}

// missingStaffTargets resolves each distinct feedback target once and
// reports the ones with no staff record. Lookup failures other than
// not-found are logged and treated as present to avoid false findings.
func (s *Scanner) missingStaffTargets(ctx context.Context, guildID string, feedback []*domain.Feedback) map[string]bool {
	distinct := make(map[string]bool)
	for _, fb := range feedback {
		if fb.TargetStaffID != "" {
			distinct[fb.TargetStaffID] = true
		}
	}

	var (
		mu      sync.Mutex
		missing = make(map[string]bool)
		wg      sync.WaitGroup
	)

	for target := range distinct {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.executor.Do(ctx, func(ctx context.Context) error {
				_, err := s.repos.Staff.FindByUserID(ctx, guildID, target)
				if errors.Is(err, domain.ErrNotFound) {
					mu.Lock()
					missing[target] = true
					mu.Unlock()
					return nil
				}
				if err != nil {
					log.Warn().Err(err).Str("user_id", target).
						Msg("integrity: deep staff lookup failed")
				}
				return nil
			})
		}()
	}

	wg.Wait()

	return missing
}

// missingReminderCases resolves each distinct reminder case once and
// reports the ones with no case record.
func (s *Scanner) missingReminderCases(ctx context.Context, reminders []*domain.Reminder) map[string]bool {
	distinct := make(map[string]bool)
	for _, rem := range reminders {
		if rem.CaseID != "" {
			distinct[rem.CaseID] = true
		}
	}

	var (
		mu      sync.Mutex
		missing = make(map[string]bool)
		wg      sync.WaitGroup
	)

	for caseID := range distinct {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.executor.Do(ctx, func(ctx context.Context) error {
				_, err := s.repos.Cases.FindByID(ctx, caseID)
				if errors.Is(err, domain.ErrNotFound) {
					mu.Lock()
					missing[caseID] = true
					mu.Unlock()
					return nil
				}
				if err != nil {
					log.Warn().Err(err).Str("case_id", caseID).
						Msg("integrity: deep case lookup failed")
				}
				return nil
			})
		}()
	}

	wg.Wait()

	return missing
}

// publish emits the scan summary to the guild's integrity channel.
func (s *Scanner) publish(ctx context.Context, report *Report) {
	if s.publisher == nil {
		return
	}

	evt := map[string]any{
		"type":           "integrity_scan_completed",
		"report_id":      report.ID.String(),
		"guild_id":       report.GuildID,
		"deep":           report.Deep,
		"total_entities": report.TotalEntitiesScanned,
		"total_issues":   len(report.Issues),
		"repairable":     report.RepairableCount,
		"critical":       report.IssuesBySeverity[SeverityCritical],
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}

	if err := s.publisher.Publish(ctx, ScanChannel(report.GuildID), payload); err != nil {
		log.Error().Err(err).Str("guild_id", report.GuildID).
			Msg("integrity: failed to publish scan event")
	}
}
