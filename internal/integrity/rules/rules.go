// Package rules holds the built-in validation rule sets for the seven
// entity kinds. Rules are registered onto an engine-owned registry at
// startup; registration failures are configuration errors and abort boot.
package rules

import (
	"fmt"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

// Deps carries the repositories rules fall back to when the batch
// validator has not warmed the shared lookups.
type Deps struct {
	Staff domain.StaffRepository
	Jobs  domain.JobRepository
	Cases domain.CaseRepository
}

// RegisterAll installs every built-in rule set.
func RegisterAll(reg *integrity.Registry, deps Deps) error {
	var all []integrity.Rule
	all = append(all, StaffRules()...)
	all = append(all, CaseRules(deps)...)
	all = append(all, ApplicationRules(deps)...)
	all = append(all, JobRules()...)
	all = append(all, RetainerRules(deps)...)
	all = append(all, FeedbackRules()...)
	all = append(all, ReminderRules()...)

	for _, rule := range all {
		if err := reg.Register(rule); err != nil {
			return fmt.Errorf("rules.RegisterAll: %w", err)
		}
	}

	return nil
}
