// Package domain defines the core business entities for Hearth.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ModelState: Per-run mutable translation context
//   - TranslationOutcome: The result of translating one document
//   - OutcomeRecord: One durable row describing a document's result
//   - Warning: A recoverable, structured anomaly recorded during a run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
