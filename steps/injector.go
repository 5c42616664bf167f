package steps

import (
	"log/slog"
	"reflect"

	"github.com/sghaida/steplib/internal/logging"
)

// DefaultMaxDepth bounds how deep collaborators may nest inside collaborators.
const DefaultMaxDepth = 32

// Option configures an Injector.
type Option func(*Injector)

// WithLogger sets the logger used for debug traces of each injection.
func WithLogger(l *slog.Logger) Option {
	return func(in *Injector) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithMaxDepth bounds collaborator nesting. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(in *Injector) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

// WithDefaultShared sets the sharing of fields whose tag does not mention
// `shared`. The default is false.
func WithDefaultShared(shared bool) Option {
	return func(in *Injector) { in.defaultShared = shared }
}

// WithRegistry sets the providers used to build collaborators.
func WithRegistry(r *ProviderRegistry) Option {
	return func(in *Injector) {
		if r != nil {
			in.registry = r
		}
	}
}

// Injector populates `steps` fields of test structs.
//
// An Injector holds no per-run state and can be used from several goroutines;
// each injection call tree runs in its own Session.
type Injector struct {
	logger        *slog.Logger
	maxDepth      int
	defaultShared bool
	registry      *ProviderRegistry
}

// New returns an Injector with the given options applied.
func New(opts ...Option) *Injector {
	in := &Injector{
		maxDepth: DefaultMaxDepth,
		registry: DefaultRegistry,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}
	return in
}

// InjectInto populates every marked field of testCase, a pointer to struct,
// and of the collaborators it creates. A struct without any marked field is
// a ConfigurationError.
//
// Errors are fatal for the whole pass. Fields assigned before the failure
// keep their values.
func (in *Injector) InjectInto(testCase any) error {
	return in.InjectWith(NewSession(), testCase)
}

// InjectOptional is InjectInto for objects that may have no marked field.
func (in *Injector) InjectOptional(testCase any) error {
	target, err := targetValue(testCase)
	if err != nil {
		return err
	}
	fields, err := FindOptionalAnnotatedFields(target.Type())
	if err != nil {
		return err
	}
	return in.inject(NewSession(), target, fields, 0)
}

// InjectWith is InjectInto within an existing session, so several objects of
// the same test-case run share their `shared` collaborators.
func (in *Injector) InjectWith(s *Session, testCase any) error {
	if s == nil {
		s = NewSession()
	}
	target, err := targetValue(testCase)
	if err != nil {
		return err
	}
	fields, err := FindMandatoryAnnotatedFields(target.Type())
	if err != nil {
		return err
	}
	return in.inject(s, target, fields, 0)
}

func targetValue(testCase any) (reflect.Value, error) {
	v := reflect.ValueOf(testCase)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, ErrInvalidTarget
	}
	return v, nil
}

// log falls back to the process default so logging.Init applies to
// injectors created before it ran.
func (in *Injector) log() *slog.Logger {
	if in.logger != nil {
		return in.logger
	}
	return logging.New("steps")
}

func (in *Injector) shared(f AnnotatedField) bool {
	m := f.Marker()
	if m.SharedSet {
		return m.Shared
	}
	return in.defaultShared
}

// inject fills fields of the struct target points to.
func (in *Injector) inject(s *Session, target reflect.Value, fields []AnnotatedField, depth int) error {
	owner := target.Elem()
	if depth > in.maxDepth {
		return ConfigurationError{Type: owner.Type(), Reason: ErrMaxDepthExceeded}
	}

	for _, f := range fields {
		current, err := f.Handle().Get(owner)
		if err != nil {
			return err
		}

		d := Decide(f, current, in.shared(f), s)
		log := in.log().With(
			slog.String("owner", owner.Type().String()),
			slog.String("field", f.FieldName()),
			slog.String("action", d.Action.String()),
		)

		switch d.Action {
		case ActionKeep:
			log.Debug("field already populated")

		case ActionReuse:
			if err := f.Handle().Set(owner, d.Instance); err != nil {
				return err
			}
			log.Debug("shared collaborator assigned")

		case ActionCreate:
			if err := in.create(s, owner, f, d, depth); err != nil {
				return err
			}
			log.Debug("collaborator created", slog.String("actor", f.ActorName()))
		}
	}
	return nil
}

func (in *Injector) create(s *Session, owner reflect.Value, f AnnotatedField, d Decision, depth int) error {
	t := f.FieldType()
	if s.isCreating(t) {
		return ConfigurationError{Type: owner.Type(), Reason: ErrInstantiationCycle}
	}

	inst, err := in.registry.Construct(t)
	if err != nil {
		return InvalidFieldError{Owner: f.Handle().Owner(), Field: f.FieldName(), Op: "construct", Err: err}
	}
	if d.Register {
		s.register(t, inst)
	}
	if err := f.Handle().Set(owner, inst); err != nil {
		return err
	}

	concrete := inst
	if concrete.Kind() == reflect.Interface {
		concrete = concrete.Elem()
	}
	if concrete.Kind() == reflect.Pointer && concrete.Elem().Kind() == reflect.Struct {
		nested, err := FindOptionalAnnotatedFields(concrete.Type())
		if err != nil {
			return err
		}
		if len(nested) > 0 {
			s.push(t)
			err = in.inject(s, concrete, nested, depth+1)
			s.pop()
			if err != nil {
				return err
			}
		}
	}

	return f.AssignActorNameIn(concrete.Interface())
}

// std is the injector behind the package-level helpers.
var std = New()

// InjectInto populates testCase with the default injector.
func InjectInto(testCase any) error { return std.InjectInto(testCase) }

// InjectOptional populates testCase with the default injector, tolerating
// structs without marked fields.
func InjectOptional(testCase any) error { return std.InjectOptional(testCase) }
