package steps

import (
	"reflect"
	"unsafe"
)

// FieldHandle addresses one field of a struct type, possibly promoted from
// an embedded struct. It reads and writes unexported fields as well.
type FieldHandle struct {
	owner reflect.Type
	field reflect.StructField
}

// Owner returns the struct type the handle was resolved against.
func (h FieldHandle) Owner() reflect.Type { return h.owner }

// Name returns the field name.
func (h FieldHandle) Name() string { return h.field.Name }

// DeclaredType returns the static type of the field.
func (h FieldHandle) DeclaredType() reflect.Type { return h.field.Type }

// Index returns the index path of the field from the owner struct.
func (h FieldHandle) Index() []int { return append([]int(nil), h.field.Index...) }

// Get returns the current value of the field in owner, which must be an
// addressable value of the owner struct type.
func (h FieldHandle) Get(owner reflect.Value) (reflect.Value, error) {
	fv, err := h.locate(owner, "read")
	if err != nil {
		return reflect.Value{}, err
	}
	return fv, nil
}

// Set assigns value to the field in owner.
func (h FieldHandle) Set(owner, value reflect.Value) error {
	fv, err := h.locate(owner, "write")
	if err != nil {
		return err
	}
	if !value.IsValid() {
		fv.SetZero()
		return nil
	}
	if !value.Type().AssignableTo(fv.Type()) {
		return h.fail("write", &typeMismatchError{want: fv.Type(), got: value.Type()})
	}
	fv.Set(value)
	return nil
}

func (h FieldHandle) locate(owner reflect.Value, op string) (reflect.Value, error) {
	if !owner.IsValid() || owner.Type() != h.owner {
		return reflect.Value{}, h.fail(op, ErrInvalidTarget)
	}
	fv, err := owner.FieldByIndexErr(h.field.Index)
	if err != nil {
		return reflect.Value{}, h.fail(op, err)
	}
	return unlocked(fv, func(err error) error { return h.fail(op, err) })
}

func (h FieldHandle) fail(op string, err error) error {
	return InvalidFieldError{Owner: h.owner, Field: h.field.Name, Op: op, Err: err}
}

// unlocked returns a settable view of v, going through its address when the
// field is unexported.
func unlocked(v reflect.Value, fail func(error) error) (reflect.Value, error) {
	if v.CanSet() {
		return v, nil
	}
	if !v.CanAddr() {
		return reflect.Value{}, fail(ErrNotAddressable)
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem(), nil
}

type typeMismatchError struct {
	want, got reflect.Type
}

func (e *typeMismatchError) Error() string {
	return "value of type " + e.got.String() + " is not assignable to " + e.want.String()
}

// AnnotatedField is a struct field carrying a `steps` marker.
// Values are produced by the scanner and never change afterwards.
type AnnotatedField struct {
	handle FieldHandle
	marker Marker
}

// FieldName returns the Go name of the field.
func (f AnnotatedField) FieldName() string { return f.handle.Name() }

// FieldType returns the declared type of the field.
func (f AnnotatedField) FieldType() reflect.Type { return f.handle.DeclaredType() }

// Handle returns the field handle.
func (f AnnotatedField) Handle() FieldHandle { return f.handle }

// Marker returns the parsed tag options.
func (f AnnotatedField) Marker() Marker { return f.marker }

// IsSharedInstance reports whether the tag asks for a shared instance.
func (f AnnotatedField) IsSharedInstance() bool { return f.marker.Shared }

// IsUniqueInstance reports whether the tag forces a fresh instance.
func (f AnnotatedField) IsUniqueInstance() bool { return f.marker.UniqueInstance }

// Actor returns the explicit actor name, if any.
func (f AnnotatedField) Actor() (string, bool) { return f.marker.ExplicitActor() }

// IsInstantiated reports whether the field currently holds a non-nil value
// in testCase, a pointer to the struct the field was scanned from.
func (f AnnotatedField) IsInstantiated(testCase any) (bool, error) {
	owner, err := f.ownerValue(testCase, "read")
	if err != nil {
		return false, err
	}
	fv, err := f.handle.Get(owner)
	if err != nil {
		return false, err
	}
	return !isNil(fv), nil
}

// SetValue assigns value into the field of testCase.
func (f AnnotatedField) SetValue(testCase, value any) error {
	owner, err := f.ownerValue(testCase, "write")
	if err != nil {
		return err
	}
	return f.handle.Set(owner, reflect.ValueOf(value))
}

func (f AnnotatedField) ownerValue(testCase any, op string) (reflect.Value, error) {
	v := reflect.ValueOf(testCase)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Type() != f.handle.owner {
		return reflect.Value{}, f.handle.fail(op, ErrInvalidTarget)
	}
	return v.Elem(), nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	case reflect.Invalid:
		return true
	}
	return false
}
