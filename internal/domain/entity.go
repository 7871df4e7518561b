package domain

// Kind tags the record shape an entity, rule, or issue applies to.
type Kind string

const (
	KindStaff       Kind = "staff"
	KindCase        Kind = "case"
	KindApplication Kind = "application"
	KindJob         Kind = "job"
	KindRetainer    Kind = "retainer"
	KindFeedback    Kind = "feedback"
	KindReminder    Kind = "reminder"
)

// Kinds returns all entity kinds in scan order.
func Kinds() []Kind {
	return []Kind{
		KindStaff, KindCase, KindApplication, KindJob,
		KindRetainer, KindFeedback, KindReminder,
	}
}

// Entity is implemented by every guild-scoped record.
// EntityKind must be callable on a nil receiver.
type Entity interface {
	EntityID() string
	EntityKind() Kind
}
