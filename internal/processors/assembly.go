package processors

import (
	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
	"github.com/hearth-labs/hearth-cli/internal/hpxml"
)

// Reference-house operating conditions forced by reference mode.
const (
	referenceAirLeakage        = "4.5"
	referenceHeatingEfficiency = "0.92"
)

const airLeakagePath = "Building/BuildingDetails/Enclosure/AirInfiltration/AirInfiltrationMeasurement/BuildingAirLeakage/AirLeakage"

var _ driven.Assembler = (*Assembler)(nil)

// Assembler is the final pipeline pass: it merges translation-mode-specific
// overrides into the completed target document and then validates it
// against the target-schema structural constraints.
type Assembler struct{}

// NewAssembler creates the assembly stage.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Finalize applies mode overrides and validates the document. A violated
// constraint set is returned as a single *domain.AssemblyError carrying
// every violation found.
func (a *Assembler) Finalize(state *domain.ModelState, target *hpxml.Document) error {
	switch state.Mode() {
	case domain.ModeReference:
		target.Set("Building/ProjectStatus/EventType", hpxml.EventTypeWorkscope)
		a.referenceOverrides(target)
	default:
		target.Set("Building/ProjectStatus/EventType", hpxml.EventTypeAudit)
	}

	if violations := hpxml.Validate(target); len(violations) > 0 {
		return &domain.AssemblyError{Violations: violations}
	}
	return nil
}

// referenceOverrides replaces as-operated values with the standard
// reference-house conditions. Only values that drive engine operating
// assumptions are touched; the described geometry is kept.
func (a *Assembler) referenceOverrides(target *hpxml.Document) {
	target.Set(airLeakagePath, referenceAirLeakage)

	for _, heating := range target.FindAll(hvacPlantPath + "/HeatingSystem") {
		eff := ensureChild(heating, "AnnualHeatingEfficiency/Value")
		eff.SetText(referenceHeatingEfficiency)
	}
}
