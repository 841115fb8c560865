package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudshipai/zoektexec/internal/capabilities"
)

var trueForms = map[string]bool{"true": true, "1": true, "yes": true, "on": true}
var falseForms = map[string]bool{"false": true, "0": true, "no": true, "off": true}

// coerceValue converts the raw string value of a command-line flag (or the
// string form of a schema default) into the Go value matching entry.Type,
// per spec.md §4.2's "Value coercion" rules.
func coerceValue(entry capabilities.ArgSchemaEntry, literal string) (any, error) {
	switch entry.Type {
	case capabilities.ArgTypeString:
		return literal, nil
	case capabilities.ArgTypeInteger:
		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q", literal)
		}
		return n, nil
	case capabilities.ArgTypeBoolean:
		lower := strings.ToLower(literal)
		if trueForms[lower] {
			return true, nil
		}
		if falseForms[lower] {
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean literal %q", literal)
	default:
		return nil, fmt.Errorf("unsupported arg type %q", entry.Type)
	}
}

// enforceBounds checks a coerced integer value against the schema's
// minimum/maximum, returning the canonical error text the spec requires.
func enforceBounds(entry capabilities.ArgSchemaEntry, value any) error {
	if entry.Type != capabilities.ArgTypeInteger {
		return nil
	}
	n, ok := value.(int64)
	if !ok {
		return nil
	}
	if entry.Minimum != nil && float64(n) < *entry.Minimum {
		return fmt.Errorf("must be >= %v", *entry.Minimum)
	}
	if entry.Maximum != nil && float64(n) > *entry.Maximum {
		return fmt.Errorf("must be <= %v", *entry.Maximum)
	}
	return nil
}

// literalOf renders an arbitrary schema default value (already decoded
// from YAML, so possibly an int, bool, or string) back into the string
// form coerceValue expects, so that defaults run through the identical
// coercion path real flag values do (spec.md §4.2 Defaulting).
func literalOf(v any) string {
	return fmt.Sprintf("%v", v)
}
