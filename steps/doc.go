// Package steps wires step libraries into test structs.
//
// A step library is any collaborator a test delegates to. Fields that should
// receive one carry a `steps` struct tag:
//
//	type CheckoutTest struct {
//		Catalog  *CatalogSteps `steps:"shared"`
//		Buyer    *ShopperSteps `steps:"actor=Buyer"`
//		Reviewer *ShopperSteps `steps:"shared,unique"`
//	}
//
//	var tc CheckoutTest
//	if err := steps.InjectInto(&tc); err != nil {
//		// the test setup is broken; fail it
//	}
//
// Injection rules:
//   - a field that is already non-nil is left alone
//   - `shared` fields of the same type share one instance per injection run
//   - `unique` always yields a fresh instance, even next to `shared`
//   - collaborators are scanned in turn, so their own `steps` fields are filled
//     with the same shared instances
//   - every created collaborator gets a display name: the `actor=` option, or
//     the field name humanized ("orderProcessor" becomes "Order Processor")
//
// The name goes to SetActorName when the collaborator implements HasActorName,
// otherwise into a string field named `actor` on a struct the collaborator
// embeds.
//
// Collaborators are built from their zero value unless a constructor was
// registered with Provide, ProvideE or ProvideAs (see cmd/stepsgen for a
// generator of those registrations).
//
// Failures are ConfigurationError (no marked field where one is required,
// malformed tag, cycles, runaway nesting) or InvalidFieldError (a field that
// cannot be read, written or constructed). Both abort the whole injection.
//
// Import
//
//	"github.com/sghaida/steplib/steps"
package steps
