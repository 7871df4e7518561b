package integrity

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/praetorlabs/praetor/internal/domain"
)

// Validator runs the dependency-ordered rule set for single entities,
// consulting the result cache first. Rule failures are absorbed: a rule
// that errors or panics contributes zero issues and never blocks its
// siblings, because rules legitimately make repository and platform calls
// that fail transiently.
type Validator struct {
	registry *Registry
	cache    *ResultCache
}

func NewValidator(registry *Registry, cache *ResultCache) *Validator {
	return &Validator{
		registry: registry,
		cache:    cache,
	}
}

// Validate returns all issues the registered rules find on the entity.
// Results are cached per (kind, id); a cache hit returns without invoking
// any rule or repository. A repair-mode context bypasses the cache read so
// repair decisions never act on stale results; the fresh run still
// refreshes the cache. Issue order follows rule execution order.
func (v *Validator) Validate(ctx context.Context, entity domain.Entity, vc *Context) []Issue {
	if vc == nil {
		vc = &Context{}
	}

	kind := entity.EntityKind()
	id := entity.EntityID()

	if !vc.RepairMode {
		if cached, ok := v.cache.Get(kind, id, OpValidate); ok {
			return cached
		}
	}

	ordered, err := v.registry.ResolveOrder(kind)
	if err != nil {
		log.Error().Err(err).Str("entity_type", string(kind)).Str("entity_id", id).
			Msg("integrity: rule order unresolvable, skipping entity")
		return nil
	}

	ec := vc.forEntity()

	var issues []Issue
	for _, rule := range ordered {
		ruleIssues := v.runRule(ctx, rule, entity, ec)
		ec.record(rule.Name, ruleIssues)
		issues = append(issues, ruleIssues...)
	}

	v.cache.Put(kind, id, OpValidate, issues)

	return issues
}

// runRule executes one rule, converting errors and panics into an empty
// result so partial rule failure never hides findings from other rules.
func (v *Validator) runRule(ctx context.Context, rule Rule, entity domain.Entity, ec *Context) (issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = nil
			log.Error().Interface("panic", r).Str("rule", rule.Name).
				Str("entity_id", entity.EntityID()).
				Msg("integrity: rule panicked")
		}
	}()

	issues, err := rule.Validate(ctx, entity, ec)
	if err != nil {
		log.Warn().Err(err).Str("rule", rule.Name).
			Str("entity_id", entity.EntityID()).
			Msg("integrity: rule failed")
		return nil
	}

	return issues
}
