package integrity

import (
	"context"
	"fmt"

	"github.com/praetorlabs/praetor/internal/domain"
)

// ValidateFunc inspects one entity and yields zero or more issues. A
// returned error is a rule execution failure: the validator logs it and
// treats the rule as having produced no issues.
type ValidateFunc func(ctx context.Context, entity domain.Entity, vc *Context) ([]Issue, error)

// Rule is a named predicate over one entity kind. Rules listed in
// DependsOn run first and their findings are readable through the context.
type Rule struct {
	Name        string
	Description string
	Kind        domain.Kind
	// Priority breaks ties between rules with no dependency relation;
	// higher runs first.
	Priority  int
	DependsOn []string
	Validate  ValidateFunc
}

// NewRule builds a Rule whose body receives the concrete entity shape for
// its kind, so a staff rule cannot be handed case data without the compiler
// complaining at the call site. The kind tag is derived from T.
func NewRule[T domain.Entity](name, description string, priority int, dependsOn []string, fn func(ctx context.Context, entity T, vc *Context) ([]Issue, error)) Rule {
	var zero T

	return Rule{
		Name:        name,
		Description: description,
		Kind:        zero.EntityKind(),
		Priority:    priority,
		DependsOn:   dependsOn,
		Validate: func(ctx context.Context, entity domain.Entity, vc *Context) ([]Issue, error) {
			typed, ok := entity.(T)
			if !ok {
				return nil, fmt.Errorf("integrity: rule %q expects %T, got %T", name, zero, entity)
			}
			return fn(ctx, typed, vc)
		},
	}
}
