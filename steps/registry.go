package steps

import (
	"fmt"
	"reflect"
	"sync"
)

// Constructor builds a collaborator without arguments.
type Constructor func() (any, error)

// ProviderRegistry maps collaborator types to parameterless constructors.
//
// Types without a provider are built from their zero value, which only works
// for pointers to structs. Register a provider for interface-typed fields or
// for collaborators that need more than the zero value.
//
// It is safe for concurrent use.
type ProviderRegistry struct {
	mu    sync.RWMutex
	items map[reflect.Type]Constructor
}

// NewProviderRegistry returns an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{items: map[reflect.Type]Constructor{}}
}

// DefaultRegistry is the registry used by injectors created without
// WithRegistry, and filled by Provide / ProvideE (usually from generated code).
var DefaultRegistry = NewProviderRegistry()

// Provide stores a constructor for values of type t and returns the registry
// for chaining. A later call for the same type replaces the earlier one.
func (r *ProviderRegistry) Provide(t reflect.Type, ctor Constructor) *ProviderRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t] = ctor
	return r
}

// Get returns the constructor registered for t.
func (r *ProviderRegistry) Get(t reflect.Type) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[t]
	return c, ok
}

// Len reports how many types have a provider.
func (r *ProviderRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Construct builds a new value assignable to t.
//
// Provider panics are turned into errors wrapping ErrConstructorPanic.
func (r *ProviderRegistry) Construct(t reflect.Type) (v reflect.Value, err error) {
	ctor, ok := r.Get(t)
	if !ok {
		if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
			return reflect.New(t.Elem()), nil
		}
		return reflect.Value{}, fmt.Errorf("%w %s", ErrNoConstructor, t)
	}

	defer func() {
		if rec := recover(); rec != nil {
			v = reflect.Value{}
			err = fmt.Errorf("%w: %v", ErrConstructorPanic, rec)
		}
	}()

	raw, err := ctor()
	if err != nil {
		return reflect.Value{}, err
	}
	rv := reflect.ValueOf(raw)
	if isNil(rv) {
		return reflect.Value{}, fmt.Errorf("provider for %s returned nil", t)
	}
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, &typeMismatchError{want: t, got: rv.Type()}
	}
	return rv, nil
}

// Provide registers ctor in DefaultRegistry for *T.
func Provide[T any](ctor func() *T) {
	ProvideE(func() (*T, error) { return ctor(), nil })
}

// ProvideE registers a constructor that can fail in DefaultRegistry for *T.
func ProvideE[T any](ctor func() (*T, error)) {
	DefaultRegistry.Provide(reflect.TypeFor[*T](), func() (any, error) {
		v, err := ctor()
		if err != nil {
			return nil, err
		}
		return v, nil
	})
}

// ProvideAs registers ctor in DefaultRegistry for the interface or pointer
// type I, so fields declared as I can be filled.
func ProvideAs[I any](ctor func() (I, error)) {
	DefaultRegistry.Provide(reflect.TypeFor[I](), func() (any, error) {
		return ctor()
	})
}
