package steps

import (
	"errors"
	"reflect"
	"strconv"
)

var (
	// ErrInvalidTarget is returned when injection is asked to populate something
	// that is not a non-nil pointer to a struct.
	ErrInvalidTarget = errors.New("steps: target must be a non-nil pointer to struct")

	// ErrNoInjectableField is the reason of a ConfigurationError raised by a
	// mandatory scan that found no marked field.
	ErrNoInjectableField = errors.New("no injectable field found")

	// ErrInstantiationCycle is the reason of a ConfigurationError raised when a
	// collaborator type (transitively) asks for a fresh instance of itself.
	ErrInstantiationCycle = errors.New("instantiation cycle detected")

	// ErrMaxDepthExceeded is the reason of a ConfigurationError raised when
	// nested collaborators go deeper than the injector allows.
	ErrMaxDepthExceeded = errors.New("maximum nesting depth exceeded")

	// ErrInvalidMarker is the reason of a ConfigurationError raised for a
	// malformed `steps` tag.
	ErrInvalidMarker = errors.New("invalid steps marker")

	// ErrUnsupportedFieldType is wrapped by InvalidFieldError when a marked
	// field cannot hold a collaborator (only pointers and interfaces can be nil).
	ErrUnsupportedFieldType = errors.New("marked field must be a pointer or interface")

	// ErrNotAddressable is wrapped by InvalidFieldError when a field cannot be
	// written, not even by bypassing export rules.
	ErrNotAddressable = errors.New("field is not addressable")

	// ErrNoConstructor is wrapped by InvalidFieldError when a field type has
	// no registered provider and cannot be zero-constructed.
	ErrNoConstructor = errors.New("no constructor for type")

	// ErrConstructorPanic is wrapped by InvalidFieldError when a provider panics.
	ErrConstructorPanic = errors.New("constructor panicked")
)

// ConfigurationError reports a test type whose markers cannot be honoured:
// nothing to inject where injection was mandatory, a malformed marker, or a
// collaborator graph that does not terminate.
type ConfigurationError struct {
	// Type is the struct type being scanned or populated. It may be nil.
	Type reflect.Type

	// Reason is one of the Err* sentinels, possibly wrapped.
	Reason error
}

// Error implements the error interface.
func (e ConfigurationError) Error() string {
	// Example: steps: configuration error in "checkout.Test": no injectable field found
	msg := "steps: configuration error"
	if e.Type != nil {
		msg += " in " + strconv.Quote(e.Type.String())
	}
	if e.Reason != nil {
		msg += ": " + e.Reason.Error()
	}
	return msg
}

// Unwrap exposes Reason to errors.Is / errors.As.
func (e ConfigurationError) Unwrap() error { return e.Reason }

// InvalidFieldError reports a marked field that could not be read, written,
// or filled because its collaborator could not be built.
type InvalidFieldError struct {
	// Owner is the struct type declaring the field.
	Owner reflect.Type

	// Field is the field name.
	Field string

	// Op is what was being attempted: "read", "write", "construct", "scan"
	// or "bind actor".
	Op string

	Err error
}

// Error implements the error interface.
func (e InvalidFieldError) Error() string {
	// Example: steps: cannot write field "checkout.Test.Buyer": field is not addressable
	ident := e.Field
	if e.Owner != nil {
		ident = e.Owner.String() + "." + e.Field
	}
	msg := "steps: cannot " + e.Op + " field " + strconv.Quote(ident)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e InvalidFieldError) Unwrap() error { return e.Err }
