package steps

import (
	"reflect"
	"slices"
	"sync"
)

// descriptor tables, built once per struct type.
var tables sync.Map // reflect.Type -> table

type table struct {
	fields []AnnotatedField
	err    error
}

// FindOptionalAnnotatedFields returns the fields of t carrying a `steps`
// marker: fields declared on t first, in declaration order, then fields of
// embedded structs, depth first. Pointer types are dereferenced; any other
// non-struct type has no fields.
func FindOptionalAnnotatedFields(t reflect.Type) ([]AnnotatedField, error) {
	t = structType(t)
	if t == nil {
		return nil, nil
	}
	if cached, ok := tables.Load(t); ok {
		tb := cached.(table)
		return slices.Clone(tb.fields), tb.err
	}

	fields, err := scan(t)
	tb := table{fields: fields, err: err}
	tables.Store(t, tb)
	return slices.Clone(tb.fields), tb.err
}

// FindMandatoryAnnotatedFields is FindOptionalAnnotatedFields, but finding
// nothing is a ConfigurationError.
func FindMandatoryAnnotatedFields(t reflect.Type) ([]AnnotatedField, error) {
	fields, err := FindOptionalAnnotatedFields(t)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ConfigurationError{Type: structType(t), Reason: ErrNoInjectableField}
	}
	return fields, nil
}

func structType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func scan(root reflect.Type) ([]AnnotatedField, error) {
	s := scanner{root: root, visiting: map[reflect.Type]bool{}}
	if err := s.walk(root, nil); err != nil {
		return nil, err
	}
	return s.out, nil
}

type scanner struct {
	root     reflect.Type
	out      []AnnotatedField
	visiting map[reflect.Type]bool
}

func (s *scanner) walk(t reflect.Type, prefix []int) error {
	// A type embedding a pointer to itself would recurse forever.
	if s.visiting[t] {
		return nil
	}
	s.visiting[t] = true
	defer delete(s.visiting, t)

	var embedded []reflect.StructField

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		sf.Index = append(slices.Clone(prefix), i)

		tag, ok := sf.Tag.Lookup(TagName)
		if !ok || tag == "-" {
			if sf.Anonymous {
				embedded = append(embedded, sf)
			}
			continue
		}

		marker, err := ParseMarker(tag)
		if err != nil {
			return ConfigurationError{Type: s.root, Reason: err}
		}
		switch sf.Type.Kind() {
		case reflect.Pointer, reflect.Interface:
		default:
			return InvalidFieldError{Owner: s.root, Field: sf.Name, Op: "scan", Err: ErrUnsupportedFieldType}
		}

		s.out = append(s.out, AnnotatedField{
			handle: FieldHandle{owner: s.root, field: sf},
			marker: marker,
		})
	}

	for _, sf := range embedded {
		if base := structType(sf.Type); base != nil {
			if err := s.walk(base, sf.Index); err != nil {
				return err
			}
		}
	}
	return nil
}
