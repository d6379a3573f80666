package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driving"
)

// processDocument executes one pipeline run for one file and builds its
// outcome record. Target bytes are written to disk only on Success, so a
// Failure never leaves a partial target document behind.
func processDocument(ctx context.Context, tr driving.Translator, path, outputDir, workerID string) domain.OutcomeRecord {
	start := time.Now()

	var outcome domain.TranslationOutcome
	data, err := os.ReadFile(path)
	if err != nil {
		outcome = domain.TranslationOutcome{
			Status:        domain.StatusFailure,
			Err:           err,
			ErrorType:     domain.FailureTypeRead,
			ErrorCategory: domain.CategoryBatch,
		}
	} else {
		outcome = tr.Translate(ctx, data, filepath.Base(path))
	}

	var outputPath *string
	if outcome.Status == domain.StatusSuccess {
		out := filepath.Join(outputDir, targetName(path))
		if werr := os.WriteFile(out, outcome.TargetXML, 0o644); werr != nil {
			outcome = domain.TranslationOutcome{
				Status:        domain.StatusFailure,
				Warnings:      outcome.Warnings,
				Err:           werr,
				ErrorType:     domain.FailureTypeWrite,
				ErrorCategory: domain.CategoryBatch,
			}
		} else {
			outputPath = &out
		}
	}

	end := time.Now()
	rec := domain.OutcomeRecord{
		ID:              uuid.NewString(),
		Filepath:        path,
		Filename:        filepath.Base(path),
		Directory:       filepath.Dir(path),
		Status:          outcome.Status,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: end.Sub(start).Seconds(),
		OutputPath:      outputPath,
		Warnings:        outcome.Warnings,
		ProcessedAt:     end,
		WorkerID:        workerID,
	}
	if outcome.Status == domain.StatusFailure {
		msg := outcome.Err.Error()
		rec.ErrorMessage = &msg
		rec.ErrorType = &outcome.ErrorType
		rec.ErrorCategory = &outcome.ErrorCategory
	}
	return rec
}

// targetName maps an input filename to its target document name.
func targetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".xml"
}
