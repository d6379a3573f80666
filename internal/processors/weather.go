package processors

import (
	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
	"github.com/hearth-labs/hearth-cli/internal/h2k"
	"github.com/hearth-labs/hearth-cli/internal/hpxml"
	"github.com/hearth-labs/hearth-cli/internal/mappings"
)

const categoryWeather = "Weather"

var _ driven.Processor = (*Weather)(nil)

// Weather resolves the HOT2000 region and location codes to the weather
// station the simulation engine expects. Unknown or absent codes fall back
// to the table defaults with a warning; weather never fails a document on
// its own.
type Weather struct {
	rules *mappings.Registry
}

// NewWeather creates the weather stage.
func NewWeather(rules *mappings.Registry) *Weather {
	return &Weather{rules: rules}
}

// Name returns the stage's failure category.
func (w *Weather) Name() string { return categoryWeather }

// Process populates ClimateandRiskZones.
func (w *Weather) Process(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error {
	for _, field := range []string{
		"Weather/Location",
		"Weather/Region",
	} {
		if err := applyScalar(w.rules, "weather", field, categoryWeather, src, state, target); err != nil {
			return err
		}
	}
	return nil
}
