package integrity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/praetorlabs/praetor/internal/domain"
)

// SystemActorID is the reserved audit actor for engine-initiated repairs.
const SystemActorID = "system:integrity"

// AuditActionRepair is the audit action recorded for every applied repair.
const AuditActionRepair = "integrity_repair"

// ErrNoRepairHandler is returned when a command names a RepairKind the
// engine has no handler for.
var ErrNoRepairHandler = errors.New("integrity: no handler for repair kind") //nolint:gochecknoglobals // sentinel error

// RepairHandler applies one repair command against storage. Handlers must
// be idempotent: applying the same command twice leaves the entity in the
// same terminal state.
type RepairHandler func(ctx context.Context, cmd *RepairCommand) error

// Options controls a repair pass.
type Options struct {
	// DryRun counts repairable issues as repaired without touching
	// storage, the audit log, or the cache.
	DryRun bool
}

// SmartOptions controls a retrying repair pass.
type SmartOptions struct {
	// MaxRetries is the total number of attempts per issue. Values below
	// 1 default to 3.
	MaxRetries int
}

const defaultMaxRetries = 3

// Engine executes the repair commands attached to issues, writing an audit
// entry for every applied repair and invalidating cached validation results
// for the touched entity. Repair errors are collected per issue and never
// propagate.
type Engine struct {
	repos    Repositories
	audit    domain.AuditRepository
	cache    *ResultCache
	handlers map[RepairKind]RepairHandler
}

func NewEngine(repos Repositories, audit domain.AuditRepository, cache *ResultCache) *Engine {
	e := &Engine{
		repos:    repos,
		audit:    audit,
		cache:    cache,
		handlers: make(map[RepairKind]RepairHandler),
	}
	e.registerBuiltins()

	return e
}

// RegisterHandler installs (or replaces) the handler for a repair kind.
func (e *Engine) RegisterHandler(kind RepairKind, handler RepairHandler) {
	e.handlers[kind] = handler
}

// Repair applies the repair command of every repairable issue. Issues
// without a command are skipped entirely: visible in TotalIssues, counted
// neither as repaired nor as failed.
func (e *Engine) Repair(ctx context.Context, issues []Issue, opts Options) *RepairResult {
	result := &RepairResult{TotalIssues: len(issues)}

	for _, issue := range issues {
		if !issue.CanAutoRepair() {
			continue
		}

		if opts.DryRun {
			result.Repaired++
			result.RepairedIssues = append(result.RepairedIssues, issue)
			continue
		}

		if err := e.repairOnce(ctx, issue, 0); err != nil {
			result.Failed++
			result.FailedRepairs = append(result.FailedRepairs, FailedRepair{Issue: issue, Err: err.Error()})
			continue
		}

		result.Repaired++
		result.RepairedIssues = append(result.RepairedIssues, issue)
	}

	return result
}

// SmartRepair retries each failing repair up to MaxRetries total attempts,
// for repairs against a store that fails transiently (lock contention,
// stale snapshot). The audit entry is written once, on final success, and
// records the zero-indexed attempt at which the repair landed.
func (e *Engine) SmartRepair(ctx context.Context, issues []Issue, opts SmartOptions) *RepairResult {
	maxRetries := opts.MaxRetries
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}

	result := &RepairResult{TotalIssues: len(issues)}

	for _, issue := range issues {
		if !issue.CanAutoRepair() {
			continue
		}

		var lastErr error
		repaired := false

		for attempt := range maxRetries {
			lastErr = e.repairOnce(ctx, issue, attempt)
			if lastErr == nil {
				repaired = true
				break
			}
			log.Warn().Err(lastErr).Str("entity_id", issue.EntityID).
				Int("attempt", attempt).
				Msg("integrity: repair attempt failed")
		}

		if repaired {
			result.Repaired++
			result.RepairedIssues = append(result.RepairedIssues, issue)
		} else {
			result.Failed++
			result.FailedRepairs = append(result.FailedRepairs, FailedRepair{Issue: issue, Err: lastErr.Error()})
		}
	}

	return result
}

// repairOnce dispatches the command, then records the audit entry and
// clears cached results for the entity. attempt is the zero-indexed try
// recorded in the audit metadata.
func (e *Engine) repairOnce(ctx context.Context, issue Issue, attempt int) error {
	cmd := issue.Repair

	handler, ok := e.handlers[cmd.Kind]
	if !ok {
		return fmt.Errorf("integrity.Engine: %q: %w", cmd.Kind, ErrNoRepairHandler)
	}

	if err := handler(ctx, cmd); err != nil {
		return err
	}

	e.recordAudit(ctx, issue, attempt)
	e.cache.Invalidate(cmd.EntityKind, cmd.EntityID)

	return nil
}

// recordAudit persists the repair trail. Audit failures are logged, not
// surfaced: the repair itself already landed.
func (e *Engine) recordAudit(ctx context.Context, issue Issue, attempt int) {
	cmd := issue.Repair

	entry := &domain.AuditEntry{
		ID:         uuid.New(),
		GuildID:    cmd.GuildID,
		ActorType:  "system",
		ActorID:    SystemActorID,
		Action:     AuditActionRepair,
		TargetKind: string(cmd.EntityKind),
		TargetID:   cmd.EntityID,
		Details: domain.AuditDetails{
			Reason: issue.Message,
			Metadata: map[string]any{
				"repair_kind": string(cmd.Kind),
				"field":       cmd.Field,
				"attempt":     attempt,
			},
		},
		CreatedAt: time.Now(),
	}

	if err := e.audit.Record(ctx, entry); err != nil {
		log.Error().Err(err).Str("entity_id", cmd.EntityID).
			Msg("integrity: failed to record repair audit entry")
	}
}

// registerBuiltins wires the repair kinds the built-in rule sets and the
// scanner's cross-entity checks emit.
func (e *Engine) registerBuiltins() {
	e.RegisterHandler(RepairSetStaffStatus, func(ctx context.Context, cmd *RepairCommand) error {
		status := domain.StaffStatus(cmd.Params["status"])
		if !status.Valid() {
			return fmt.Errorf("integrity: repair %q: invalid target status %q", cmd.Kind, cmd.Params["status"])
		}
		return e.repos.Staff.UpdateStatus(ctx, cmd.EntityID, status)
	})

	e.RegisterHandler(RepairSetApplicationStatus, func(ctx context.Context, cmd *RepairCommand) error {
		status := domain.ApplicationStatus(cmd.Params["status"])
		if !status.Valid() {
			return fmt.Errorf("integrity: repair %q: invalid target status %q", cmd.Kind, cmd.Params["status"])
		}
		return e.repos.Applications.UpdateStatus(ctx, cmd.EntityID, status)
	})

	e.RegisterHandler(RepairClearCaseChannel, func(ctx context.Context, cmd *RepairCommand) error {
		return e.repos.Cases.SetChannelID(ctx, cmd.EntityID, "")
	})

	e.RegisterHandler(RepairClearLeadAttorney, func(ctx context.Context, cmd *RepairCommand) error {
		return e.repos.Cases.SetLeadAttorney(ctx, cmd.EntityID, "")
	})

	e.RegisterHandler(RepairAssignLeadAttorney, func(ctx context.Context, cmd *RepairCommand) error {
		userID := cmd.Params["user_id"]
		if userID == "" {
			return fmt.Errorf("integrity: repair %q: missing user_id param", cmd.Kind)
		}
		return e.repos.Cases.AddAssignedLawyer(ctx, cmd.EntityID, userID)
	})

	e.RegisterHandler(RepairClearReminderChannel, func(ctx context.Context, cmd *RepairCommand) error {
		return e.repos.Reminders.SetChannelID(ctx, cmd.EntityID, "")
	})

	e.RegisterHandler(RepairDeactivateReminder, func(ctx context.Context, cmd *RepairCommand) error {
		return e.repos.Reminders.Deactivate(ctx, cmd.EntityID)
	})
}
