package domain

// TranslationMode selects which set of assembly-stage overrides is applied
// to the completed target document.
type TranslationMode string

// Available translation modes.
const (
	// ModeAsBuilt translates the house as described in the source document.
	ModeAsBuilt TranslationMode = "as_built"

	// ModeReference substitutes standard reference-house values for
	// operating conditions during assembly.
	ModeReference TranslationMode = "reference"
)

// IsValid returns true if the translation mode is recognised.
func (m TranslationMode) IsValid() bool {
	switch m {
	case ModeAsBuilt, ModeReference:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m TranslationMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m TranslationMode) Description() string {
	switch m {
	case ModeAsBuilt:
		return "As-built (translate the house as described)"
	case ModeReference:
		return "Reference (apply standard reference-house operating conditions)"
	default:
		return "Unknown"
	}
}
