package steps_test

import (
	"errors"

	"github.com/sghaida/steplib/internal/logging"
	"github.com/sghaida/steplib/steps"
)

// Base plays the role of the common step-library base type carrying the
// conventional actor field.
type Base struct {
	actor string
}

func (b *Base) ActorName() string { return b.actor }

type OrderProcessor struct {
	Base
	Calls int
}

type Inventory struct {
	Base
}

type Warehouse struct {
	Base
	Inventory *Inventory `steps:"shared"`
}

// Shopper names itself through SetActorName.
type Shopper struct {
	name string
}

func (s *Shopper) SetActorName(name string) { s.name = name }

// Plain has a field so that distinct instances have distinct addresses.
type Plain struct{ id int }

// ActorOnSelf declares `actor` on itself, not on an embedded base, so the
// convention does not apply.
type ActorOnSelf struct {
	actor string
}

type PtrBase struct {
	*Base
}

type Failing struct{ Base }

type Loop struct {
	Next *Loop `steps:""`
}

type SharedLoop struct {
	Next *SharedLoop `steps:"shared"`
}

type Depth1 struct {
	Next *Depth2 `steps:""`
}

type Depth2 struct {
	Next *Depth3 `steps:""`
}

type Depth3 struct{}

// Greeter is filled through an interface-typed field.
type Greeter interface {
	Greet() string
}

type englishGreeter struct{ Base }

func (englishGreeter) Greet() string { return "hello" }

type Unmarked struct {
	Processor *OrderProcessor
	Ignored   *Plain `steps:"-"`
}

type CheckoutTest struct {
	orderProcessor *OrderProcessor `steps:""`
	Buyer          *OrderProcessor `steps:"actor=Buyer"`
	Unrelated      *Plain
}

type SharedTest struct {
	First  *Inventory `steps:"shared"`
	Second *Inventory `steps:"shared"`
	Unique *Inventory `steps:"shared,unique"`
	Fresh  *Inventory `steps:""`
}

type NestedTest struct {
	Warehouse *Warehouse `steps:"shared"`
	Inventory *Inventory `steps:"shared"`
}

// ScenarioB has no base struct, hence no actor field to write.
type ScenarioB struct {
	hits int
}

type ScenarioA struct {
	Base
	serviceB *ScenarioB `steps:"shared"`
}

type ScenarioTest struct {
	serviceA *ScenarioA `steps:"shared"`
}

type BaseTest struct {
	Shared *Inventory `steps:"shared"`
}

type DerivedTest struct {
	Own *Plain `steps:""`
	BaseTest
}

type PtrDerivedTest struct {
	*BaseTest
}

var errBoom = errors.New("boom")

// newInjector returns an injector isolated from DefaultRegistry.
func newInjector(opts ...steps.Option) (*steps.Injector, *steps.ProviderRegistry) {
	reg := steps.NewProviderRegistry()
	all := append([]steps.Option{
		steps.WithRegistry(reg),
		steps.WithLogger(logging.Discard()),
	}, opts...)
	return steps.New(all...), reg
}
