package processors

import (
	"fmt"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
	"github.com/hearth-labs/hearth-cli/internal/h2k"
	"github.com/hearth-labs/hearth-cli/internal/hpxml"
	"github.com/hearth-labs/hearth-cli/internal/mappings"
)

const categorySystems = "Systems"

const hvacPlantPath = "Building/BuildingDetails/Systems/HVAC/HVACPlant"

// estimateWattsPerM2 sizes heating equipment from floor area when the
// source document does not specify an output capacity.
const estimateWattsPerM2 = 50.0

var _ driven.Processor = (*Systems)(nil)

// Systems translates heating, cooling and ventilation equipment. It runs
// after Enclosure because equipment sizing defaults read the heated floor
// area from the ModelState.
type Systems struct {
	rules *mappings.Registry
}

// NewSystems creates the systems stage.
func NewSystems(rules *mappings.Registry) *Systems {
	return &Systems{rules: rules}
}

// Name returns the stage's failure category.
func (s *Systems) Name() string { return categorySystems }

// Process populates Systems/HVAC and MechanicalVentilation.
func (s *Systems) Process(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error {
	if err := s.heating(src, state, target); err != nil {
		return err
	}
	s.cooling(src, state, target)
	if err := applyScalar(s.rules, "systems",
		"House/Ventilation/WholeHouseVentilatorList/Hrv/SupplyFlowrate",
		categorySystems, src, state, target); err != nil {
		return err
	}
	return nil
}

// heating builds the HeatingSystem. A missing output capacity is estimated
// from the heated floor area computed by the Enclosure stage.
func (s *Systems) heating(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error {
	idx := state.NextIndex("HeatingSystem")
	heating := target.Add(hvacPlantPath, "HeatingSystem")
	heating.CreateElement("SystemIdentifier").CreateAttr("id", fmt.Sprintf("heating%d", idx))

	const capField = "House/HeatingCooling/Type1/Furnace/Specifications/OutputCapacity"
	capRule, _ := s.rules.Lookup("systems", capField)

	raw, found := src.Value(capField)
	if !found {
		// Estimate capacity in kW from floor area.
		if area, ok := state.Value(domain.DerivedHeatedFloorArea); ok && capRule != nil {
			estimatedKW := area * estimateWattsPerM2 / 1000
			state.AddWarning(domain.WarnCapacityEstimated, capField,
				fmt.Sprintf("no rated output capacity, estimated %.1f kW from %.0f m2 floor area", estimatedKW, area))
			if converted, err := capRule.Apply(formatFloat(estimatedKW)); err == nil {
				setRelative(heating, capRule.Target, converted)
			}
		} else {
			state.AddWarning(domain.WarnMissingOptionalSection, capField,
				"no rated output capacity and no floor area to estimate from")
		}
	} else if capRule != nil {
		converted, err := capRule.Apply(raw)
		if err != nil {
			return handleApplyError(capRule, capField, categorySystems, raw, err, state, target)
		}
		setRelative(heating, capRule.Target, converted)
	}

	for _, field := range []string{
		"House/HeatingCooling/Type1/Furnace/Equipment/EnergySource",
		"House/HeatingCooling/Type1/Furnace/Specifications/EfficiencyValue",
	} {
		rule, ok := s.rules.Lookup("systems", field)
		if !ok {
			continue
		}
		raw, found := src.Value(field)
		if !found {
			if rule.Default != "" {
				state.AddWarning(domain.WarnDefaultApplied, field,
					fmt.Sprintf("source field absent, using default %q", rule.Default))
				setRelative(heating, rule.Target, rule.Default)
			}
			continue
		}
		converted, err := rule.Apply(raw)
		if err != nil {
			if rule.Default != "" {
				state.AddWarning(domain.WarnUnknownEnumValue, field,
					fmt.Sprintf("value %q has no mapping, using default %q", raw, rule.Default))
				setRelative(heating, rule.Target, rule.Default)
				continue
			}
			return handleApplyError(rule, field, categorySystems, raw, err, state, target)
		}
		setRelative(heating, rule.Target, converted)
	}

	return nil
}

// cooling builds the CoolingSystem when the source specifies one. An
// absent cooling section is a normal configuration for the climate: it is
// recorded as a warning and marked explicitly in the target so the engine
// does not apply its own cooling defaults.
func (s *Systems) cooling(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) {
	const section = "House/HeatingCooling/Type2/AirConditioning"

	if !src.Has(section) {
		state.AddWarning(domain.WarnNoCoolingSpecified, section,
			"source document specifies no cooling equipment")
		target.Set(hvacPlantPath+"/extension/NoCoolingSpecified", "true")
		return
	}

	idx := state.NextIndex("CoolingSystem")
	cooling := target.Add(hvacPlantPath, "CoolingSystem")
	cooling.CreateElement("SystemIdentifier").CreateAttr("id", fmt.Sprintf("cooling%d", idx))

	for _, field := range []string{
		"House/HeatingCooling/Type2/AirConditioning/Specifications/RatedCapacity",
		"House/HeatingCooling/Type2/AirConditioning/Specifications/Efficiency",
	} {
		rule, ok := s.rules.Lookup("systems", field)
		if !ok {
			continue
		}
		raw, found := src.Value(field)
		if !found {
			if rule.Default != "" {
				state.AddWarning(domain.WarnDefaultApplied, field,
					fmt.Sprintf("source field absent, using default %q", rule.Default))
				setRelative(cooling, rule.Target, rule.Default)
			}
			continue
		}
		if converted, err := rule.Apply(raw); err == nil {
			setRelative(cooling, rule.Target, converted)
		} else {
			state.AddError(domain.WarnUnknownEnumValue, field, err.Error())
		}
	}
}
