package steps

import "reflect"

// Session is the shared-instance context of one test-case run.
//
// It maps collaborator types to the instance shared by every `shared` field
// of that type. A Session is not safe for concurrent use and must not be
// reused across test cases.
type Session struct {
	shared   map[reflect.Type]reflect.Value
	creating []reflect.Type
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{shared: map[reflect.Type]reflect.Value{}}
}

// Shared returns the shared instance registered for t.
func (s *Session) Shared(t reflect.Type) (any, bool) {
	v, ok := s.shared[t]
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// Len reports how many shared instances the session holds.
func (s *Session) Len() int { return len(s.shared) }

func (s *Session) register(t reflect.Type, v reflect.Value) { s.shared[t] = v }

func (s *Session) lookup(t reflect.Type) (reflect.Value, bool) {
	v, ok := s.shared[t]
	return v, ok
}

func (s *Session) push(t reflect.Type) { s.creating = append(s.creating, t) }

func (s *Session) pop() { s.creating = s.creating[:len(s.creating)-1] }

func (s *Session) isCreating(t reflect.Type) bool {
	for _, c := range s.creating {
		if c == t {
			return true
		}
	}
	return false
}

// Action is what the instance policy decided for one field.
type Action int

const (
	// ActionKeep leaves an already populated field alone.
	ActionKeep Action = iota
	// ActionReuse assigns the session's shared instance.
	ActionReuse
	// ActionCreate builds a new collaborator.
	ActionCreate
)

func (a Action) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionReuse:
		return "reuse"
	case ActionCreate:
		return "create"
	}
	return "unknown"
}

// Decision is the outcome of Decide.
type Decision struct {
	Action Action

	// Instance is the shared instance to assign for ActionReuse.
	Instance reflect.Value

	// Register is set for ActionCreate when the new instance must become the
	// session's shared instance for the field type.
	Register bool
}

// Decide applies the instantiation policy to a field whose current value is
// current. shared is the effective sharing flag of the field.
//
// A populated field is kept. A unique field always gets a fresh instance that
// is not registered, even when shared is also set. A shared field reuses the
// session's instance when there is one and otherwise registers the one it
// creates.
func Decide(field AnnotatedField, current reflect.Value, shared bool, s *Session) Decision {
	if !isNil(current) {
		return Decision{Action: ActionKeep}
	}
	if field.IsUniqueInstance() {
		return Decision{Action: ActionCreate}
	}
	if shared {
		if inst, ok := s.lookup(field.FieldType()); ok {
			return Decision{Action: ActionReuse, Instance: inst}
		}
		return Decision{Action: ActionCreate, Register: true}
	}
	return Decision{Action: ActionCreate}
}
