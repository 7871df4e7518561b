// Package integrity implements the cross-entity integrity validation and
// repair engine: a rule-driven consistency checker over the seven
// guild-scoped record collections, with dependency-ordered rule execution,
// time-bounded result caching, bounded concurrency, and audited auto-repair.
package integrity

import (
	"time"

	"github.com/google/uuid"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/platform"
)

// Severity classifies how much a finding undermines trust in the record.
type Severity string

const (
	// SeverityCritical blocks trust in the record.
	SeverityCritical Severity = "critical"
	// SeverityWarning is advisory.
	SeverityWarning Severity = "warning"
	// SeverityInfo is observational, e.g. a cross-referenced platform
	// entity is gone.
	SeverityInfo Severity = "info"
)

// RepairKind names an automated remediation the repair engine knows how to
// dispatch. Kinds are namespaced by the entity kind they mutate.
type RepairKind string

const (
	RepairSetStaffStatus       RepairKind = "staff.set_status"
	RepairSetApplicationStatus RepairKind = "application.set_status"
	RepairClearCaseChannel     RepairKind = "case.clear_channel"
	RepairClearLeadAttorney    RepairKind = "case.clear_lead_attorney"
	RepairAssignLeadAttorney   RepairKind = "case.assign_lead"
	RepairClearReminderChannel RepairKind = "reminder.clear_channel"
	RepairDeactivateReminder   RepairKind = "reminder.deactivate"
)

// RepairCommand describes a remediation as plain data so that issues stay
// serializable: no repository handles are embedded in findings. The repair
// engine resolves the command to a handler at execution time. Handlers are
// idempotent by contract.
type RepairCommand struct {
	Kind       RepairKind        `json:"kind"`
	EntityKind domain.Kind       `json:"entity_kind"`
	EntityID   string            `json:"entity_id"`
	GuildID    string            `json:"guild_id"`
	Field      string            `json:"field,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
}

// Issue is a single detected inconsistency.
type Issue struct {
	Severity Severity       `json:"severity"`
	Kind     domain.Kind    `json:"entity_type"`
	EntityID string         `json:"entity_id"`
	Field    string         `json:"field,omitempty"`
	Message  string         `json:"message"`
	Repair   *RepairCommand `json:"repair,omitempty"`
}

// CanAutoRepair reports whether an automated remediation exists. A
// repairable issue always carries a command and a non-repairable one never
// does; deriving the flag from command presence makes that structural.
func (i Issue) CanAutoRepair() bool {
	return i.Repair != nil
}

// Level selects how aggressively rules validate.
type Level string

const (
	// LevelStrict enables rules that consult the platform for existence
	// checks on referenced channels and members.
	LevelStrict Level = "strict"
	// LevelLenient restricts validation to stored data only.
	LevelLenient Level = "lenient"
)

// Context carries per-call validation parameters. The zero value is a
// usable lenient context.
type Context struct {
	GuildID string
	Checker platform.ExistenceChecker // optional; consulted only at LevelStrict
	Level   Level
	Related *Related

	// RepairMode marks a scan feeding a repair pass: cached validation
	// results are bypassed so repairs act on current state.
	RepairMode bool

	// findings holds per-entity results of already-executed rules, keyed
	// by rule name. Populated by the validator; scoped to one entity.
	findings map[string][]Issue
}

// Strict reports whether platform existence checks should run.
func (c *Context) Strict() bool {
	return c.Level == LevelStrict && c.Checker != nil
}

// Findings returns the issues produced by an earlier rule for the entity
// currently being validated. Only rules named in DependsOn are guaranteed
// to have run.
func (c *Context) Findings(ruleName string) []Issue {
	return c.findings[ruleName]
}

// forEntity returns a shallow copy with a fresh findings scope.
func (c *Context) forEntity() *Context {
	ec := *c
	ec.findings = make(map[string][]Issue)
	return &ec
}

func (c *Context) record(ruleName string, issues []Issue) {
	c.findings[ruleName] = issues
}

// withRelated returns a copy of the context carrying the pre-warmed lookup
// set. A Related already supplied by the caller wins.
func (c *Context) withRelated(related *Related) *Context {
	if c.Related != nil {
		return c
	}
	cc := *c
	cc.Related = related
	return &cc
}

// Related holds pre-fetched entities shared across a batch so that rules
// needing the same lookup do not repeat repository queries. A nil map means
// that lookup was not warmed and rules must fall back to the repository; a
// present map is authoritative for the guild, so absence in it means the
// referenced entity does not exist.
type Related struct {
	StaffByUserID map[string]*domain.Staff
	JobsByID      map[string]*domain.Job
	CasesByID     map[string]*domain.CaseFile
}

// StaffMember looks up a warmed staff record by platform user ID. The
// second result distinguishes "not warmed" (use the repository) from a
// definitive answer.
func (r *Related) StaffMember(userID string) (*domain.Staff, bool, bool) {
	if r == nil || r.StaffByUserID == nil {
		return nil, false, false
	}
	s, ok := r.StaffByUserID[userID]
	return s, ok, true
}

// Job looks up a warmed job record by ID.
func (r *Related) Job(id string) (*domain.Job, bool, bool) {
	if r == nil || r.JobsByID == nil {
		return nil, false, false
	}
	j, ok := r.JobsByID[id]
	return j, ok, true
}

// Case looks up a warmed case record by ID.
func (r *Related) Case(id string) (*domain.CaseFile, bool, bool) {
	if r == nil || r.CasesByID == nil {
		return nil, false, false
	}
	c, ok := r.CasesByID[id]
	return c, ok, true
}

// Report is the aggregate result of one integrity scan.
type Report struct {
	ID                   uuid.UUID           `json:"id"`
	GuildID              string              `json:"guild_id"`
	Deep                 bool                `json:"deep"`
	StartedAt            time.Time           `json:"started_at"`
	FinishedAt           time.Time           `json:"finished_at"`
	TotalEntitiesScanned int                 `json:"total_entities_scanned"`
	Issues               []Issue             `json:"issues"`
	IssuesBySeverity     map[Severity]int    `json:"issues_by_severity"`
	IssuesByKind         map[domain.Kind]int `json:"issues_by_kind"`
	RepairableCount      int                 `json:"repairable_count"`
}

// finalize stamps the end time and recomputes the aggregate counters from
// the issue list.
func (r *Report) finalize(finishedAt time.Time) {
	r.FinishedAt = finishedAt
	r.IssuesBySeverity = make(map[Severity]int)
	r.IssuesByKind = make(map[domain.Kind]int)
	r.RepairableCount = 0

	for _, issue := range r.Issues {
		r.IssuesBySeverity[issue.Severity]++
		r.IssuesByKind[issue.Kind]++
		if issue.CanAutoRepair() {
			r.RepairableCount++
		}
	}
}

// FailedRepair pairs an issue with the error that prevented its repair.
type FailedRepair struct {
	Issue Issue  `json:"issue"`
	Err   string `json:"error"`
}

// RepairResult is the outcome of one repair pass. Issues that cannot
// auto-repair count toward TotalIssues only.
type RepairResult struct {
	TotalIssues    int            `json:"total_issues"`
	Repaired       int            `json:"repaired"`
	Failed         int            `json:"failed"`
	RepairedIssues []Issue        `json:"repaired_issues"`
	FailedRepairs  []FailedRepair `json:"failed_repairs"`
}
