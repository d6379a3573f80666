package domain

import "time"

// Status is the terminal state of one document's translation.
type Status string

// Outcome statuses.
const (
	StatusSuccess Status = "Success"
	StatusFailure Status = "Failure"
)

// TranslationOutcome is the result of one pipeline run. Exactly one outcome
// is produced per document: either Success carrying the serialized target
// document, or Failure carrying the classified error. Warnings accumulated
// up to the point of completion or failure are carried in both cases.
type TranslationOutcome struct {
	Status Status

	// TargetXML is the serialized target document. Populated only on
	// Success; a Failure outcome never carries target bytes.
	TargetXML []byte

	// Warnings holds every observation recorded on the run's ModelState:
	// warnings followed by non-fatal errors.
	Warnings []Warning

	// Err is the error that failed the run. Nil on Success.
	Err error

	// ErrorType and ErrorCategory are the classified failure identifiers
	// recorded in the outcome store. Empty on Success.
	ErrorType     string
	ErrorCategory string
}

// SuccessOutcome builds a Success outcome.
func SuccessOutcome(targetXML []byte, warnings []Warning) TranslationOutcome {
	return TranslationOutcome{
		Status:    StatusSuccess,
		TargetXML: targetXML,
		Warnings:  warnings,
	}
}

// FailureOutcome builds a Failure outcome, classifying the error.
func FailureOutcome(err error, warnings []Warning) TranslationOutcome {
	errType, category := Classify(err)
	return TranslationOutcome{
		Status:        StatusFailure,
		Warnings:      warnings,
		Err:           err,
		ErrorType:     errType,
		ErrorCategory: category,
	}
}

// OutcomeRecord is one durable row summarising the processing result of one
// input document. Exactly one record exists per input document, written
// exactly once, regardless of success or failure.
type OutcomeRecord struct {
	ID              string
	Filepath        string
	Filename        string
	Directory       string
	Status          Status
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds float64
	OutputPath      *string
	ErrorMessage    *string
	ErrorType       *string
	ErrorCategory   *string
	Warnings        []Warning
	ProcessedAt     time.Time
	WorkerID        string
}

// StoreSummary is the per-status row count read back from the store.
type StoreSummary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summary is the end-of-batch result exposed to the CLI.
type Summary struct {
	// Succeeded and Failed count documents by outcome.
	Succeeded int
	Failed    int

	// Unrecorded counts outcomes whose store write failed. These documents
	// were processed but have no durable record.
	Unrecorded int

	// ByCategory is the categorized breakdown of failure types drawn from
	// the store, keyed by error category.
	ByCategory map[string]int
}

// BatchStatus is a point-in-time snapshot of a running batch, polled by the
// CLI for progress display.
type BatchStatus struct {
	Running    bool
	Total      int
	Processed  int
	Succeeded  int
	Failed     int
	Unrecorded int
}
