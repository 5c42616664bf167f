package steps

import (
	"fmt"
	"strconv"
	"strings"
)

// TagName is the struct tag key that marks a field for injection.
const TagName = "steps"

// Marker holds the options of one `steps` tag.
//
// Shared and UniqueInstance are not mutually exclusive here; the instance
// policy gives UniqueInstance precedence.
type Marker struct {
	Shared         bool
	UniqueInstance bool

	// SharedSet reports whether the tag said anything about sharing. When it
	// did not, an injector may apply its own default.
	SharedSet bool

	actor string
}

// ExplicitActor returns the configured actor name. ok is false when the tag
// carries no actor or a blank one.
func (m Marker) ExplicitActor() (name string, ok bool) {
	name = strings.TrimSpace(m.actor)
	if name == "" {
		return "", false
	}
	return name, true
}

// ParseMarker parses the value of a `steps` tag.
//
// Accepted options, comma separated:
//
//	shared, shared=<bool>
//	unique, uniqueInstance, unique=<bool>
//	actor=<name>
//
// An empty value marks the field with default options.
func ParseMarker(tag string) (Marker, error) {
	var m Marker
	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}

		key, value, hasValue := strings.Cut(opt, "=")
		key = strings.TrimSpace(key)

		switch key {
		case "shared":
			b, err := parseFlag(key, value, hasValue)
			if err != nil {
				return Marker{}, err
			}
			m.Shared = b
			m.SharedSet = true
		case "unique", "uniqueInstance":
			b, err := parseFlag(key, value, hasValue)
			if err != nil {
				return Marker{}, err
			}
			m.UniqueInstance = b
		case "actor":
			if !hasValue {
				return Marker{}, fmt.Errorf("%w: actor needs a value", ErrInvalidMarker)
			}
			m.actor = value
		default:
			return Marker{}, fmt.Errorf("%w: unknown option %q", ErrInvalidMarker, key)
		}
	}
	return m, nil
}

func parseFlag(key, value string, hasValue bool) (bool, error) {
	if !hasValue {
		return true, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidMarker, key, value)
	}
	return b, nil
}
