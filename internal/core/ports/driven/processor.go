package driven

import (
	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/h2k"
	"github.com/hearth-labs/hearth-cli/internal/hpxml"
)

// Processor is one ordered transformation stage. Given the read-only source
// document, the run's ModelState and the target document under
// construction, it mutates target and state.
//
// Contract: recoverable domain anomalies are recorded as warnings on the
// ModelState, never returned; a returned error (normally a
// *domain.TranslationError) aborts only the current document.
type Processor interface {
	// Name is the processor's failure category, e.g. "Enclosure".
	Name() string

	Process(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error
}

// Pipeline runs the processors in their fixed, documented order. Later
// stages depend on ModelState values computed by earlier ones.
type Pipeline interface {
	Run(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error
}

// Assembler performs the final pass: translation-mode-specific overrides
// followed by structural validation of the completed target document.
// Violations are returned as a *domain.AssemblyError carrying the full
// violation list.
type Assembler interface {
	Finalize(state *domain.ModelState, target *hpxml.Document) error
}
