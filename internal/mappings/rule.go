package mappings

import (
	"fmt"
	"strconv"
)

// Kind identifies the conversion a rule applies to a source value.
type Kind string

// Available conversion kinds.
const (
	// KindDirect copies the source value unchanged.
	KindDirect Kind = "direct"

	// KindScale parses the source value as a number and multiplies it by
	// the rule's factor (unit conversions).
	KindScale Kind = "scale"

	// KindEnum maps the source value through the rule's enum table.
	KindEnum Kind = "enum"

	// KindBool normalises truthy source values ("1", "true", "True") to
	// "true" and everything else to "false".
	KindBool Kind = "bool"
)

// IsValid returns true if the kind is recognised.
func (k Kind) IsValid() bool {
	switch k {
	case KindDirect, KindScale, KindEnum, KindBool:
		return true
	default:
		return false
	}
}

// EnumEntry is one source→target correspondence in an enum rule. Entries
// are declared as an array of tables so duplicate keys are detectable at
// load time.
type EnumEntry struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// Rule is one immutable field correspondence between the source and target
// schemas. Rules are loaded once at process start and are safe for
// unsynchronised concurrent reads.
type Rule struct {
	// Source is the source-document path the rule consumes.
	Source string `toml:"source"`

	// Target is the target-document path the rule populates.
	Target string `toml:"target"`

	// Convert selects the conversion kind.
	Convert Kind `toml:"convert"`

	// Factor is the multiplier for scale rules.
	Factor float64 `toml:"factor"`

	// Unit documents the target unit after conversion.
	Unit string `toml:"unit"`

	// Default is the target-side value used when the source field is
	// absent. An absent required field with no default fails the document.
	Default string `toml:"default"`

	// Required marks fields whose absence (with no default) is
	// irrecoverable for the document.
	Required bool `toml:"required"`

	// Enum holds the entries for enum rules.
	Enum []EnumEntry `toml:"enum"`

	enumIndex map[string]string
}

// UnknownEnumError reports a source value with no entry in the rule's enum
// table. Callers decide whether this is a warning (default available) or a
// document failure.
type UnknownEnumError struct {
	Source string
	Value  string
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("no enum entry for %q at %s", e.Value, e.Source)
}

// Apply converts a raw source value to its target representation.
func (r *Rule) Apply(raw string) (string, error) {
	switch r.Convert {
	case KindDirect:
		return raw, nil

	case KindScale:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", fmt.Errorf("scale %s: %q is not numeric", r.Source, raw)
		}
		return strconv.FormatFloat(v*r.Factor, 'f', -1, 64), nil

	case KindEnum:
		mapped, ok := r.enumIndex[raw]
		if !ok {
			return "", &UnknownEnumError{Source: r.Source, Value: raw}
		}
		return mapped, nil

	case KindBool:
		switch raw {
		case "1", "true", "True", "TRUE":
			return "true", nil
		default:
			return "false", nil
		}

	default:
		return "", fmt.Errorf("rule %s: unknown conversion kind %q", r.Source, r.Convert)
	}
}
