package steps

import (
	"reflect"
	"strings"
)

// HasActorName is implemented by collaborators that take their display name
// through a method rather than through an `actor` field on their base struct.
type HasActorName interface {
	SetActorName(name string)
}

// ActorName returns the display name bound to collaborators of this field:
// the explicit actor when there is one, else the humanized field name.
func (f AnnotatedField) ActorName() string {
	if name, ok := f.Actor(); ok {
		return name
	}
	return Humanize(f.FieldName())
}

// AssignActorNameIn binds the field's actor name onto steps.
//
// Collaborators implementing HasActorName receive it through SetActorName.
// Otherwise the name is written into a string field called `actor` (or
// `Actor`) declared on a struct embedded in steps; without such a field
// nothing happens.
func (f AnnotatedField) AssignActorNameIn(steps any) error {
	name := f.ActorName()
	if strings.TrimSpace(name) == "" {
		return nil
	}

	if named, ok := steps.(HasActorName); ok {
		named.SetActorName(name)
		return nil
	}

	v := reflect.ValueOf(steps)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil
	}
	return writeActorField(v.Elem(), name)
}

func writeActorField(v reflect.Value, name string) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		embedded := t.Field(i)
		if !embedded.Anonymous {
			continue
		}
		base := structType(embedded.Type)
		if base == nil {
			continue
		}
		actor, ok := actorField(base)
		if !ok {
			continue
		}

		fail := func(err error) error {
			return InvalidFieldError{Owner: base, Field: actor.Name, Op: "bind actor", Err: err}
		}

		bv := v.Field(i)
		if bv.Kind() == reflect.Pointer {
			if bv.IsNil() {
				return fail(ErrNotAddressable)
			}
			bv = bv.Elem()
		}
		fv, err := unlocked(bv.Field(actor.Index[0]), fail)
		if err != nil {
			return err
		}
		fv.SetString(name)
		return nil
	}
	return nil
}

// actorField finds the conventional name field declared directly on base.
func actorField(base reflect.Type) (reflect.StructField, bool) {
	for i := 0; i < base.NumField(); i++ {
		sf := base.Field(i)
		if (sf.Name == "actor" || sf.Name == "Actor") && sf.Type.Kind() == reflect.String {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}
