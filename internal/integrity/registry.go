package integrity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/praetorlabs/praetor/internal/domain"
)

// ErrDuplicateRule is returned when a rule name is registered twice.
var ErrDuplicateRule = errors.New("integrity: duplicate rule name") //nolint:gochecknoglobals // sentinel error

// ErrCyclicDependency is returned when registering a rule would close a
// dependency cycle.
var ErrCyclicDependency = errors.New("integrity: cyclic rule dependency") //nolint:gochecknoglobals // sentinel error

// CycleError names the members of a detected dependency cycle so the
// misconfiguration is diagnosable rather than silently truncated.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	return "integrity: cyclic rule dependency: " + strings.Join(e.Members, " -> ")
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicDependency
}

type registered struct {
	rule Rule
	seq  int
}

// Registry holds all validation rules and resolves their execution order.
// Duplicate names and dependency cycles are configuration errors rejected
// at registration time; they must abort startup.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]*registered
	seq   int
}

func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]*registered),
	}
}

// Register adds a rule. It fails with ErrDuplicateRule when the name is
// taken and with a CycleError when the rule's dependencies close a cycle;
// a rejected rule is not retained.
func (r *Registry) Register(rule Rule) error {
	if rule.Name == "" {
		return errors.New("integrity.Registry.Register: rule name is empty")
	}
	if rule.Validate == nil {
		return fmt.Errorf("integrity.Registry.Register(%q): rule has no validate func", rule.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.Name]; exists {
		return fmt.Errorf("integrity.Registry.Register(%q): %w", rule.Name, ErrDuplicateRule)
	}

	r.rules[rule.Name] = &registered{rule: rule, seq: r.seq}
	r.seq++

	if cycle := r.findCycle(rule.Name); cycle != nil {
		delete(r.rules, rule.Name)
		return fmt.Errorf("integrity.Registry.Register(%q): %w", rule.Name, &CycleError{Members: cycle})
	}

	return nil
}

// Registered reports whether a rule name is active.
func (r *Registry) Registered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rules[name]
	return ok
}

// ResolveOrder returns the rules for one entity kind such that every rule
// appears after all of its dependencies. Rules with no dependency relation
// are ordered by descending priority, then by registration order. A rule
// whose dependency chain includes an unregistered name is omitted: it
// declared it must run after something that can never run.
func (r *Registry) ResolveOrder(kind domain.Kind) ([]Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var regs []*registered
	for _, reg := range r.rules {
		if reg.rule.Kind == kind {
			regs = append(regs, reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool {
		if regs[i].rule.Priority != regs[j].rule.Priority {
			return regs[i].rule.Priority > regs[j].rule.Priority
		}
		return regs[i].seq < regs[j].seq
	})

	// Depth-first topological sort with three-color marking. The
	// in-progress color catches back-edges; registration should have
	// rejected those already, so hitting one here means the registry was
	// mutated in a way Register never allows.
	const (
		unvisited = iota
		inProgress
		done
	)

	colors := make(map[string]int, len(regs))
	excluded := make(map[string]bool)
	order := make([]Rule, 0, len(regs))
	var stack []string

	var visit func(reg *registered) error
	visit = func(reg *registered) error {
		name := reg.rule.Name

		switch colors[name] {
		case done:
			return nil
		case inProgress:
			return &CycleError{Members: cycleFrom(stack, name)}
		}

		colors[name] = inProgress
		stack = append(stack, name)

		for _, depName := range reg.rule.DependsOn {
			dep, ok := r.rules[depName]
			if !ok || dep.rule.Kind != reg.rule.Kind {
				excluded[name] = true
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
			if excluded[depName] {
				excluded[name] = true
			}
		}

		stack = stack[:len(stack)-1]
		colors[name] = done

		if !excluded[name] {
			order = append(order, reg.rule)
		}

		return nil
	}

	for _, reg := range regs {
		if err := visit(reg); err != nil {
			return nil, fmt.Errorf("integrity.Registry.ResolveOrder(%q): %w", kind, err)
		}
	}

	return order, nil
}

// findCycle runs a three-color depth-first walk from start and returns the
// members of the first cycle reachable from it, or nil. Must be called with
// the write lock held.
func (r *Registry) findCycle(start string) []string {
	const (
		unvisited = iota
		inProgress
		done
	)

	colors := make(map[string]int)
	var stack []string
	var cycle []string

	var visit func(reg *registered) bool
	visit = func(reg *registered) bool {
		name := reg.rule.Name

		switch colors[name] {
		case done:
			return false
		case inProgress:
			cycle = cycleFrom(stack, name)
			return true
		}

		colors[name] = inProgress
		stack = append(stack, name)

		for _, depName := range reg.rule.DependsOn {
			dep, ok := r.rules[depName]
			if !ok || dep.rule.Kind != reg.rule.Kind {
				continue
			}
			if visit(dep) {
				return true
			}
		}

		stack = stack[:len(stack)-1]
		colors[name] = done

		return false
	}

	if visit(r.rules[start]) {
		return cycle
	}

	return nil
}

// cycleFrom slices the DFS stack from the first occurrence of name, which
// is the cycle's entry point.
func cycleFrom(stack []string, name string) []string {
	for i, n := range stack {
		if n == name {
			members := make([]string, 0, len(stack)-i+1)
			members = append(members, stack[i:]...)
			members = append(members, name)
			return members
		}
	}
	return []string{name, name}
}
