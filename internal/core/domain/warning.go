package domain

// Warning codes recorded by processors. Warnings never abort a run.
const (
	// WarnNoCoolingSpecified: the source document has no cooling section.
	WarnNoCoolingSpecified = "NoCoolingSpecified"

	// WarnDefaultApplied: a source field was absent and the mapping-table
	// default was used instead.
	WarnDefaultApplied = "DefaultApplied"

	// WarnUnknownEnumValue: a source value had no enum-table entry and a
	// default was substituted.
	WarnUnknownEnumValue = "UnknownEnumValue"

	// WarnHighInsulationValue: an insulation value is above the typical
	// range and was kept as-is.
	WarnHighInsulationValue = "HighInsulationValue"

	// WarnMissingOptionalSection: an optional source section is absent.
	WarnMissingOptionalSection = "MissingOptionalSection"

	// WarnCapacityEstimated: an equipment capacity was derived from floor
	// area because the source did not specify one.
	WarnCapacityEstimated = "CapacityEstimated"
)

// Warning is a structured, recoverable anomaly observed during translation.
// Warnings are appended to the run's ModelState and returned as part of the
// outcome; they are never raised as errors.
type Warning struct {
	// Code is the machine-readable warning code.
	Code string `json:"code"`

	// Field is the source field involved, when known.
	Field string `json:"field,omitempty"`

	// Message is the human-readable explanation.
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Field != "" {
		return w.Code + " (" + w.Field + "): " + w.Message
	}
	return w.Code + ": " + w.Message
}
