package processors

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
	"github.com/hearth-labs/hearth-cli/internal/h2k"
	"github.com/hearth-labs/hearth-cli/internal/hpxml"
	"github.com/hearth-labs/hearth-cli/internal/mappings"
)

const categoryEnclosure = "Enclosure"

// typicalMaxRSI is the upper bound of plausible insulation values (RSI).
// Values above it are kept but flagged.
const typicalMaxRSI = 20.0

const enclosurePath = "Building/BuildingDetails/Enclosure"

var _ driven.Processor = (*Enclosure)(nil)

// Enclosure translates the building envelope: heated floor area, walls,
// windows, ceilings and air infiltration. It accumulates the derived floor
// and wall areas on the ModelState for the Systems stage.
type Enclosure struct {
	rules *mappings.Registry
}

// NewEnclosure creates the enclosure stage.
func NewEnclosure(rules *mappings.Registry) *Enclosure {
	return &Enclosure{rules: rules}
}

// Name returns the stage's failure category.
func (e *Enclosure) Name() string { return categoryEnclosure }

// Process populates the Enclosure section and the derived areas.
func (e *Enclosure) Process(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error {
	if err := e.floorArea(src, state, target); err != nil {
		return err
	}
	if err := e.walls(src, state, target); err != nil {
		return err
	}
	e.windows(src, state, target)
	e.ceilings(src, state, target)
	e.infiltration(src, state, target)
	return nil
}

// floorArea sums the above- and below-grade heated areas (m²), stores the
// total for later stages and writes the converted ConditionedFloorArea.
func (e *Enclosure) floorArea(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error {
	const field = "House/Specifications/HeatedFloorArea"

	rule, ok := e.rules.Lookup("enclosure", field)
	if !ok {
		return nil
	}

	el := src.Find(field)
	if el == nil {
		return applyAbsent(rule, field, categoryEnclosure, state, target)
	}

	above := attrFloat(el, "aboveGrade")
	below := attrFloat(el, "belowGrade")
	total := above + below
	if total <= 0 {
		return &domain.TranslationError{
			Type:     "Validation_NonPositiveFloorArea",
			Category: categoryEnclosure,
			Field:    field,
			Message:  fmt.Sprintf("heated floor area must be positive, got %g", total),
		}
	}

	state.SetValue(domain.DerivedHeatedFloorArea, total)

	converted, err := rule.Apply(formatFloat(total))
	if err != nil {
		return handleApplyError(rule, field, categoryEnclosure, formatFloat(total), err, state, target)
	}
	target.Set(rule.Target, converted)
	return nil
}

// walls builds one target Wall per source wall component. A wall's
// insulation value is required; a negative value is an irrecoverable
// validation failure, an implausibly high one only a warning.
func (e *Enclosure) walls(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error {
	rvalueRule, _ := e.rules.Lookup("enclosure", "House/Components/Wall/Construction/Type")
	areaRule, _ := e.rules.Lookup("enclosure", "House/Components/Wall/Measurements")

	for _, wallEl := range src.FindAll("House/Components/Wall") {
		idx := state.NextIndex("Wall")
		wall := target.Add(enclosurePath+"/Walls", "Wall")
		wall.CreateElement("SystemIdentifier").CreateAttr("id", fmt.Sprintf("wall%d", idx))

		if label := wallEl.SelectElement("Label"); label != nil {
			wall.CreateElement("extension").CreateElement("Label").SetText(label.Text())
		}

		typeEl := wallEl.FindElement("Construction/Type")
		rsi, found := componentRSI(typeEl)
		switch {
		case !found:
			if rvalueRule != nil && rvalueRule.Required {
				return &domain.TranslationError{
					Type:     "MissingRequiredField_WallInsulation",
					Category: categoryEnclosure,
					Field:    "WallInsulationRValue",
					Message:  fmt.Sprintf("wall %d has no insulation value and the mapping table has no default", idx),
				}
			}
		case rsi < 0:
			return &domain.TranslationError{
				Type:     "Validation_NegativeRValue",
				Category: categoryEnclosure,
				Field:    "WallInsulationRValue",
				Message:  fmt.Sprintf("wall %d has negative insulation value %g", idx, rsi),
			}
		default:
			if rsi > typicalMaxRSI {
				state.AddWarning(domain.WarnHighInsulationValue, "WallInsulationRValue",
					fmt.Sprintf("wall %d insulation RSI %g is above the typical range", idx, rsi))
			}
			if rvalueRule != nil {
				converted, err := rvalueRule.Apply(formatFloat(rsi))
				if err == nil {
					setRelative(wall, rvalueRule.Target, converted)
				}
			}
		}

		if area, ok := measuredArea(wallEl.SelectElement("Measurements")); ok {
			state.AddValue(domain.DerivedWallArea, area)
			if areaRule != nil {
				if converted, err := areaRule.Apply(formatFloat(area)); err == nil {
					setRelative(wall, areaRule.Target, converted)
				}
			}
		}
	}

	return nil
}

// windows builds target Windows. Window values are optional throughout.
func (e *Enclosure) windows(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) {
	rvalueRule, _ := e.rules.Lookup("enclosure", "House/Components/Window/Construction/Type")
	areaRule, _ := e.rules.Lookup("enclosure", "House/Components/Window/Measurements")

	for _, winEl := range src.FindAll("House/Components/Window") {
		idx := state.NextIndex("Window")
		win := target.Add(enclosurePath+"/Windows", "Window")
		win.CreateElement("SystemIdentifier").CreateAttr("id", fmt.Sprintf("window%d", idx))

		if rsi, found := componentRSI(winEl.FindElement("Construction/Type")); found && rsi > 0 && rvalueRule != nil {
			if converted, err := rvalueRule.Apply(formatFloat(rsi)); err == nil {
				setRelative(win, rvalueRule.Target, converted)
			}
		}
		if area, ok := measuredArea(winEl.SelectElement("Measurements")); ok && areaRule != nil {
			if converted, err := areaRule.Apply(formatFloat(area)); err == nil {
				setRelative(win, areaRule.Target, converted)
			}
		}
	}
}

// ceilings builds target Roofs from ceiling components.
func (e *Enclosure) ceilings(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) {
	rule, _ := e.rules.Lookup("enclosure", "House/Components/Ceiling/Construction/CeilingType")

	for _, ceilEl := range src.FindAll("House/Components/Ceiling") {
		idx := state.NextIndex("Roof")
		roof := target.Add(enclosurePath+"/Roofs", "Roof")
		roof.CreateElement("SystemIdentifier").CreateAttr("id", fmt.Sprintf("roof%d", idx))

		if rsi, found := componentRSI(ceilEl.FindElement("Construction/CeilingType")); found && rule != nil {
			if rsi > typicalMaxRSI {
				state.AddWarning(domain.WarnHighInsulationValue, "CeilingInsulationRValue",
					fmt.Sprintf("ceiling %d insulation RSI %g is above the typical range", idx, rsi))
			}
			if converted, err := rule.Apply(formatFloat(rsi)); err == nil {
				setRelative(roof, rule.Target, converted)
			}
		}
	}
}

// infiltration writes the blower-test air-change rate, falling back to the
// table default when the house was never tested.
func (e *Enclosure) infiltration(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) {
	const field = "House/NaturalAirInfiltration/Specifications/BlowerTest"

	rule, ok := e.rules.Lookup("enclosure", field)
	if !ok {
		return
	}

	raw, found := src.Attr(field, "airChangeRate")
	if !found {
		if rule.Default != "" {
			state.AddWarning(domain.WarnDefaultApplied, field,
				fmt.Sprintf("no blower test on record, using default air-change rate %q", rule.Default))
			target.Set(rule.Target, rule.Default)
		}
		return
	}
	if converted, err := rule.Apply(raw); err == nil {
		target.Set(rule.Target, converted)
	}
	target.Set(enclosurePath+"/AirInfiltration/AirInfiltrationMeasurement/BuildingAirLeakage/UnitofMeasure", "ACHnatural")
}

// componentRSI extracts an insulation value (RSI) from a construction-type
// element, preferring the rValue attribute over text.
func componentRSI(el *etree.Element) (float64, bool) {
	if el == nil {
		return 0, false
	}
	if a := el.SelectAttr("rValue"); a != nil {
		v, err := strconv.ParseFloat(a.Value, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	raw, ok := h2k.ElementValue(el)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// measuredArea computes a component's gross area (m²) from its
// Measurements element: an explicit area attribute, or height times width.
func measuredArea(el *etree.Element) (float64, bool) {
	if el == nil {
		return 0, false
	}
	if a := el.SelectAttr("area"); a != nil {
		v, err := strconv.ParseFloat(a.Value, 64)
		return v, err == nil && v > 0
	}
	h := attrFloat(el, "height")
	w := attrFloat(el, "width")
	if h > 0 && w > 0 {
		return h * w, true
	}
	return 0, false
}

func attrFloat(el *etree.Element, key string) float64 {
	a := el.SelectAttr(key)
	if a == nil {
		return 0
	}
	v, err := strconv.ParseFloat(a.Value, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
