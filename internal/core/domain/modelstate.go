package domain

// Keys for cross-stage derived values. Earlier stages store these on the
// ModelState; later stages read them.
const (
	// DerivedHeatedFloorArea is the accumulated heated floor area in m²,
	// computed by the Enclosure stage and read by the Systems stage.
	DerivedHeatedFloorArea = "heated_floor_area_m2"

	// DerivedWallArea is the total gross wall area in m².
	DerivedWallArea = "wall_area_m2"
)

// ModelState is the per-run mutable context threaded through the pipeline
// stages. It holds monotonically increasing per-component-type counters,
// an append-only list of warnings, recorded non-fatal errors, and scalar
// values derived by earlier stages for consumption by later ones.
//
// ModelState is thread-confined: exactly one instance exists per pipeline
// run and it is never accessed from more than one goroutine. It is
// deliberately not synchronised.
type ModelState struct {
	mode     TranslationMode
	counters map[string]int
	warnings []Warning
	errs     []Warning
	derived  map[string]float64
}

// NewModelState creates a fresh state for one pipeline run.
func NewModelState(mode TranslationMode) *ModelState {
	return &ModelState{
		mode:     mode,
		counters: make(map[string]int),
		derived:  make(map[string]float64),
	}
}

// Mode returns the translation mode for this run.
func (s *ModelState) Mode() TranslationMode {
	return s.mode
}

// NextIndex returns the next index for a component type. Indices start at 1
// and are strictly increasing per type within a run; they never reset
// mid-run and never leak between runs.
func (s *ModelState) NextIndex(componentType string) int {
	s.counters[componentType]++
	return s.counters[componentType]
}

// AddWarning appends a warning to the run's warning list.
func (s *ModelState) AddWarning(code, field, message string) {
	s.warnings = append(s.warnings, Warning{Code: code, Field: field, Message: message})
}

// AddError records a non-fatal error observation. It does not abort the
// run; irrecoverable conditions are raised as TranslationError instead.
func (s *ModelState) AddError(code, field, message string) {
	s.errs = append(s.errs, Warning{Code: code, Field: field, Message: message})
}

// Warnings returns a copy of the warnings recorded so far.
func (s *ModelState) Warnings() []Warning {
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Errors returns a copy of the recorded non-fatal errors.
func (s *ModelState) Errors() []Warning {
	out := make([]Warning, len(s.errs))
	copy(out, s.errs)
	return out
}

// Observations returns everything recorded during the run, warnings
// followed by the non-fatal errors, as one list for the outcome, so
// recorded anomalies survive into the durable record.
func (s *ModelState) Observations() []Warning {
	out := make([]Warning, 0, len(s.warnings)+len(s.errs))
	out = append(out, s.warnings...)
	out = append(out, s.errs...)
	return out
}

// SetValue stores a derived scalar for later stages.
func (s *ModelState) SetValue(key string, value float64) {
	s.derived[key] = value
}

// Value returns a derived scalar stored by an earlier stage.
func (s *ModelState) Value(key string) (float64, bool) {
	v, ok := s.derived[key]
	return v, ok
}

// AddValue accumulates onto a derived scalar, creating it if absent.
func (s *ModelState) AddValue(key string, delta float64) {
	s.derived[key] += delta
}
