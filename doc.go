// Package steplib wires step libraries into test structs.
//
// A test struct marks the collaborators it needs with a `steps` tag; the
// injector builds them, shares them where asked, fills their own marked
// fields in turn and gives each one a display name for reports.
//
// See subpackages:
//   - steps: field scanning, instance policy, injection and actor binding
//   - config: injector settings from YAML and STEPLIB_* environment variables
//   - cmd/stepsgen: generator of steps.Provide registrations for constructors
//   - examples/checkout: an end-to-end scenario
package steplib
