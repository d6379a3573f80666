package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driving"
	"github.com/hearth-labs/hearth-cli/internal/h2k"
	"github.com/hearth-labs/hearth-cli/internal/hpxml"
	"github.com/hearth-labs/hearth-cli/internal/mappings"
	"github.com/hearth-labs/hearth-cli/internal/processors"
)

// Ensure TranslationService implements the interface.
var _ driving.Translator = (*TranslationService)(nil)

// TranslationService runs the pipeline for one document: Parser →
// Processors (fixed order) → Assembly. All mutation happens on in-memory
// trees owned by the run; serialization is the final step, gated on
// success, so a Failure never leaves partial target bytes anywhere.
type TranslationService struct {
	pipeline  driven.Pipeline
	assembler driven.Assembler
	mode      domain.TranslationMode
	log       *zap.Logger
}

// NewTranslationService creates a translator using the standard stage
// order for the given mapping registry and mode.
func NewTranslationService(reg *mappings.Registry, mode domain.TranslationMode, log *zap.Logger) *TranslationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TranslationService{
		pipeline:  processors.Default(reg),
		assembler: processors.NewAssembler(),
		mode:      mode,
		log:       log,
	}
}

// Translate produces exactly one outcome for one document. Raised
// ParseError/TranslationError/AssemblyError values — and panics from
// anywhere inside a stage — are normalised into Failure so a bad document
// can never take down sibling work.
func (s *TranslationService) Translate(ctx context.Context, input []byte, name string) (outcome domain.TranslationOutcome) {
	state := domain.NewModelState(s.mode)

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic during translation",
				zap.String("document", name), zap.Any("panic", r))
			outcome = domain.TranslationOutcome{
				Status:        domain.StatusFailure,
				Warnings:      state.Observations(),
				Err:           fmt.Errorf("panic: %v", r),
				ErrorType:     domain.FailureTypePanic,
				ErrorCategory: domain.CategoryPipeline,
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return domain.FailureOutcome(err, state.Observations())
	}

	src, err := h2k.Parse(input)
	if err != nil {
		return domain.FailureOutcome(err, state.Observations())
	}

	target := hpxml.New()

	if err := s.pipeline.Run(src, state, target); err != nil {
		return domain.FailureOutcome(err, state.Observations())
	}

	if err := s.assembler.Finalize(state, target); err != nil {
		return domain.FailureOutcome(err, state.Observations())
	}

	data, err := target.Bytes()
	if err != nil {
		return domain.FailureOutcome(err, state.Observations())
	}

	s.log.Debug("translated document",
		zap.String("document", name),
		zap.Int("warnings", len(state.Observations())),
		zap.Int("bytes", len(data)))

	return domain.SuccessOutcome(data, state.Observations())
}
