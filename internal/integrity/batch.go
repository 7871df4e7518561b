package integrity

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/praetorlabs/praetor/internal/domain"
)

// BatchValidator validates heterogeneous entity collections. The optimized
// path groups entities by kind and warms the shared lookups their rules
// need, bounding repository calls to the number of distinct referenced IDs
// instead of the number of entities. Both paths produce identical issue
// sets; only call volume differs.
type BatchValidator struct {
	repos     Repositories
	validator *Validator
	executor  *Executor
}

func NewBatchValidator(repos Repositories, validator *Validator, executor *Executor) *BatchValidator {
	return &BatchValidator{
		repos:     repos,
		validator: validator,
		executor:  executor,
	}
}

// Validate runs each entity through the validator independently and
// returns issues keyed by entity ID. Entities with no issues are omitted.
func (b *BatchValidator) Validate(ctx context.Context, entities []domain.Entity, vc *Context) map[string][]Issue {
	if vc == nil {
		vc = &Context{}
	}

	results := make(map[string][]Issue)
	for _, entity := range entities {
		issues := b.validator.Validate(ctx, entity, vc)
		if len(issues) > 0 {
			results[entity.EntityID()] = issues
		}
	}

	return results
}

// ValidateOptimized groups entities by kind, pre-fetches the lookups shared
// within each group, and validates against the warmed context. A caller
// that already supplies Related keeps its own set.
func (b *BatchValidator) ValidateOptimized(ctx context.Context, entities []domain.Entity, vc *Context) map[string][]Issue {
	if vc == nil {
		vc = &Context{}
	}

	groups := make(map[domain.Kind][]domain.Entity)
	for _, entity := range entities {
		kind := entity.EntityKind()
		groups[kind] = append(groups[kind], entity)
	}

	results := make(map[string][]Issue)
	for kind, group := range groups {
		gvc := vc
		if vc.Related == nil {
			gvc = vc.withRelated(b.warmRelated(ctx, kind, group))
		}
		for _, entity := range group {
			issues := b.validator.Validate(ctx, entity, gvc)
			if len(issues) > 0 {
				results[entity.EntityID()] = issues
			}
		}
	}

	return results
}

// warmRelated builds the lookup set the kind's rules consult. Warm
// failures fall back to nil maps, which rules treat as "query the
// repository yourself", so a cold cache degrades performance, not results.
func (b *BatchValidator) warmRelated(ctx context.Context, kind domain.Kind, group []domain.Entity) *Related {
	related := &Related{}

	switch kind {
	case domain.KindApplication:
		distinct := make(map[string]bool)
		for _, entity := range group {
			app, ok := entity.(*domain.Application)
			if ok && app.JobID != "" {
				distinct[app.JobID] = true
			}
		}
		related.JobsByID = b.warmJobs(ctx, distinct)

	case domain.KindCase, domain.KindRetainer, domain.KindFeedback:
		guildID := ""
		if len(group) > 0 {
			switch e := group[0].(type) {
			case *domain.CaseFile:
				guildID = e.GuildID
			case *domain.Retainer:
				guildID = e.GuildID
			case *domain.Feedback:
				guildID = e.GuildID
			}
		}
		related.StaffByUserID = b.warmStaff(ctx, guildID)

	case domain.KindReminder:
		distinct := make(map[string]bool)
		for _, entity := range group {
			rem, ok := entity.(*domain.Reminder)
			if ok && rem.CaseID != "" {
				distinct[rem.CaseID] = true
			}
		}
		related.CasesByID = b.warmCases(ctx, distinct)
	}

	return related
}

// warmJobs fetches each distinct job once. Missing jobs are simply absent
// from the map; a lookup error aborts warming so rules fall back to the
// repository rather than mistake an outage for a missing record.
func (b *BatchValidator) warmJobs(ctx context.Context, ids map[string]bool) map[string]*domain.Job {
	jobs := make(map[string]*domain.Job, len(ids))

	var (
		mu     sync.Mutex
		failed bool
		wg     sync.WaitGroup
	)

	for id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.executor.Do(ctx, func(ctx context.Context) error {
				job, err := b.repos.Jobs.FindByID(ctx, id)
				if errors.Is(err, domain.ErrNotFound) {
					return nil
				}
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed = true
					log.Warn().Err(err).Str("job_id", id).Msg("integrity: batch job warm failed")
					return nil
				}
				jobs[id] = job
				return nil
			})
		}()
	}

	wg.Wait()

	if failed {
		return nil
	}

	return jobs
}

func (b *BatchValidator) warmStaff(ctx context.Context, guildID string) map[string]*domain.Staff {
	if guildID == "" {
		return nil
	}

	var staff []*domain.Staff
	err := b.executor.Do(ctx, func(ctx context.Context) error {
		var fetchErr error
		staff, fetchErr = b.repos.Staff.FindByGuild(ctx, guildID)
		return fetchErr
	})
	if err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("integrity: batch staff warm failed")
		return nil
	}

	byUserID := make(map[string]*domain.Staff, len(staff))
	for _, s := range staff {
		byUserID[s.UserID] = s
	}

	return byUserID
}

func (b *BatchValidator) warmCases(ctx context.Context, ids map[string]bool) map[string]*domain.CaseFile {
	cases := make(map[string]*domain.CaseFile, len(ids))

	var (
		mu     sync.Mutex
		failed bool
		wg     sync.WaitGroup
	)

	for id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.executor.Do(ctx, func(ctx context.Context) error {
				cf, err := b.repos.Cases.FindByID(ctx, id)
				if errors.Is(err, domain.ErrNotFound) {
					return nil
				}
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed = true
					log.Warn().Err(err).Str("case_id", id).Msg("integrity: batch case warm failed")
					return nil
				}
				cases[id] = cf
				return nil
			})
		}()
	}

	wg.Wait()

	if failed {
		return nil
	}

	return cases
}
