package driving

import (
	"context"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
)

// Translator runs the translation pipeline for one document. It never
// returns an error: every failure mode, including panics inside a
// processor, is normalised into a Failure outcome so that one document can
// never abort sibling work.
type Translator interface {
	Translate(ctx context.Context, input []byte, name string) domain.TranslationOutcome
}
