package steps

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regLib struct{ n int }

type regNamer interface{ Name() string }

type regNamed struct{ name string }

func (r *regNamed) Name() string { return r.name }

//
// -----------------------------------------------------------------------------
// NewProviderRegistry / Provide / Get
// -----------------------------------------------------------------------------

// TestNewProviderRegistry_Empty verifies NewProviderRegistry initializes an empty map.
func TestNewProviderRegistry_Empty(t *testing.T) {
	t.Parallel()

	r := NewProviderRegistry()
	require.NotNil(t, r)
	require.NotNil(t, r.items)
	assert.Equal(t, 0, r.Len())
}

// TestProvide_ChainsAndStores verifies Provide stores constructors and returns the same registry.
func TestProvide_ChainsAndStores(t *testing.T) {
	t.Parallel()

	r := NewProviderRegistry()
	libType := reflect.TypeFor[*regLib]()
	namerType := reflect.TypeFor[regNamer]()

	ret := r.
		Provide(libType, func() (any, error) { return &regLib{n: 1}, nil }).
		Provide(namerType, func() (any, error) { return &regNamed{}, nil })
	require.Same(t, r, ret)
	assert.Equal(t, 2, r.Len())

	_, ok := r.Get(libType)
	assert.True(t, ok)
	_, ok = r.Get(reflect.TypeFor[*regNamed]())
	assert.False(t, ok)
}

//
// -----------------------------------------------------------------------------
// Construct
// -----------------------------------------------------------------------------

func TestConstruct_ZeroValueForStructPointers(t *testing.T) {
	t.Parallel()

	v, err := NewProviderRegistry().Construct(reflect.TypeFor[*regLib]())
	require.NoError(t, err)
	require.Equal(t, reflect.TypeFor[*regLib](), v.Type())
	assert.Equal(t, 0, v.Interface().(*regLib).n)
}

func TestConstruct_NoConstructor(t *testing.T) {
	t.Parallel()

	r := NewProviderRegistry()
	for _, typ := range []reflect.Type{reflect.TypeFor[regNamer](), reflect.TypeFor[*int]()} {
		_, err := r.Construct(typ)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoConstructor), "got: %v", err)
	}
}

func TestConstruct_UsesProvider(t *testing.T) {
	t.Parallel()

	r := NewProviderRegistry().
		Provide(reflect.TypeFor[regNamer](), func() (any, error) { return &regNamed{name: "n"}, nil })

	v, err := r.Construct(reflect.TypeFor[regNamer]())
	require.NoError(t, err)
	assert.Equal(t, "n", v.Interface().(regNamer).Name())
}

func TestConstruct_ProviderErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	typ := reflect.TypeFor[*regLib]()

	cases := []struct {
		name    string
		ctor    Constructor
		wantIs  error
		wantSub string
	}{
		{name: "error", ctor: func() (any, error) { return nil, boom }, wantIs: boom},
		{name: "nil value", ctor: func() (any, error) { return nil, nil }, wantSub: "returned nil"},
		{name: "typed nil", ctor: func() (any, error) { return (*regLib)(nil), nil }, wantSub: "returned nil"},
		{name: "wrong type", ctor: func() (any, error) { return &regNamed{}, nil }, wantSub: "not assignable"},
		{name: "panic", ctor: func() (any, error) { panic("bad") }, wantIs: ErrConstructorPanic, wantSub: "bad"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := NewProviderRegistry().Provide(typ, tc.ctor)
			v, err := r.Construct(typ)
			require.Error(t, err)
			assert.False(t, v.IsValid())
			if tc.wantIs != nil {
				assert.True(t, errors.Is(err, tc.wantIs), "got: %v", err)
			}
			if tc.wantSub != "" {
				assert.Contains(t, err.Error(), tc.wantSub)
			}
		})
	}
}

//
// -----------------------------------------------------------------------------
// Package-level helpers
// -----------------------------------------------------------------------------

type defaultRegLib struct{ n int }

type defaultRegNamer interface{ Name() string }

// TestProvideHelpers registers into DefaultRegistry with types private to this test.
func TestProvideHelpers(t *testing.T) {
	Provide(func() *defaultRegLib { return &defaultRegLib{n: 3} })

	v, err := DefaultRegistry.Construct(reflect.TypeFor[*defaultRegLib]())
	require.NoError(t, err)
	assert.Equal(t, 3, v.Interface().(*defaultRegLib).n)

	boom := errors.New("boom")
	ProvideE(func() (*defaultRegLib, error) { return nil, boom })
	_, err = DefaultRegistry.Construct(reflect.TypeFor[*defaultRegLib]())
	assert.True(t, errors.Is(err, boom))

	ProvideAs(func() (defaultRegNamer, error) { return &regNamed{name: "x"}, nil })
	v, err = DefaultRegistry.Construct(reflect.TypeFor[defaultRegNamer]())
	require.NoError(t, err)
	assert.Equal(t, "x", v.Interface().(defaultRegNamer).Name())
}
