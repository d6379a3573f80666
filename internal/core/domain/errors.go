package domain

import (
	"errors"
	"fmt"
	"strings"
)

// The error taxonomy separates fatal startup failures from per-document
// failures. ConfigError aborts the process before any document is touched;
// Parse/Translation/Assembly errors abort only the current document;
// StoreError is logged and surfaced as an unrecorded outcome.

// ConfigError indicates a malformed mapping table. A bad table would
// corrupt every subsequent translation, so this is fatal at startup.
type ConfigError struct {
	// Table is the table (or file) that failed validation.
	Table string

	// Reason describes what is wrong with the table.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mapping table %q: %s", e.Table, e.Reason)
}

// ParseError indicates a source document could not be parsed.
// This is a per-document, recoverable failure.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Reason, e.Err)
	}
	return "parse: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// TranslationError indicates an irrecoverable condition inside a processor,
// such as a required source field with no mapping-table default. It aborts
// only the current document.
type TranslationError struct {
	// Type is the machine-readable failure type recorded in the outcome
	// store, e.g. "Validation_NegativeRValue".
	Type string

	// Category is the functional domain that raised the error,
	// e.g. "Enclosure".
	Category string

	// Field is the source field involved, when known.
	Field string

	// Message is the human-readable explanation.
	Message string
}

func (e *TranslationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s): %s", e.Category, e.Type, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Category, e.Type, e.Message)
}

// Violation is one structural constraint the completed target document
// failed to satisfy.
type Violation struct {
	// Path is the target-document path of the offending element.
	Path string

	// Constraint describes the violated constraint.
	Constraint string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Constraint
}

// AssemblyError indicates the completed target document violates the
// target schema. It carries the full list of violations, not just the
// first, to aid debugging large batches.
type AssemblyError struct {
	Violations []Violation
}

func (e *AssemblyError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("assembly: %d schema violation(s): %s",
		len(e.Violations), strings.Join(parts, "; "))
}

// StoreError indicates a single outcome record could not be persisted.
// The batch continues; the record is counted as unrecorded.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("outcome store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Failure types used for errors that do not carry their own Type.
const (
	FailureTypeParse    = "Parse_MalformedDocument"
	FailureTypeAssembly = "Assembly_SchemaViolation"
	FailureTypePanic    = "Internal_Panic"
	FailureTypeRead     = "IO_ReadFailed"
	FailureTypeWrite    = "IO_WriteFailed"
	FailureTypeInternal = "Internal_Unexpected"
)

// Failure categories for errors raised outside a named processor.
const (
	CategoryParse    = "Parse"
	CategoryAssembly = "Assembly"
	CategoryPipeline = "Pipeline"
	CategoryBatch    = "Batch"
)

// Classify maps an error raised during a pipeline run to the
// (error_type, error_category) pair recorded in the outcome store.
func Classify(err error) (errType, category string) {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Type, te.Category
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return FailureTypeParse, CategoryParse
	}
	var ae *AssemblyError
	if errors.As(err, &ae) {
		return FailureTypeAssembly, CategoryAssembly
	}
	return FailureTypeInternal, CategoryPipeline
}
