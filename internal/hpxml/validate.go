package hpxml

import (
	"strconv"
	"strings"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
)

// Event types accepted by ProjectStatus/EventType.
const (
	EventTypeAudit     = "audit"
	EventTypeWorkscope = "proposed workscope"
)

// Facility types accepted by ResidentialFacilityType.
var facilityTypes = []string{
	"single-family detached",
	"single-family attached",
	"apartment unit",
	"manufactured home",
}

var eventTypes = []string{EventTypeAudit, EventTypeWorkscope}

// structural constraints checked after assembly. Each entry is either a
// required element, an enumeration membership, or a positive-number check.
type constraint struct {
	path     string
	enum     []string
	positive bool
}

var constraints = []constraint{
	{path: "Building/BuildingID"},
	{path: "Building/ProjectStatus/EventType", enum: eventTypes},
	{path: "Building/BuildingDetails/BuildingSummary/BuildingConstruction/ResidentialFacilityType", enum: facilityTypes},
	{path: "Building/BuildingDetails/BuildingSummary/BuildingConstruction/ConditionedFloorArea", positive: true},
	{path: "Building/BuildingDetails/ClimateandRiskZones/WeatherStation/Name"},
	{path: "Building/BuildingDetails/Enclosure/Walls/Wall"},
	{path: "Building/BuildingDetails/Systems/HVAC"},
}

// Validate checks the completed document against the target-schema
// structural constraints and returns every violation found, not just the
// first.
func Validate(d *Document) []domain.Violation {
	var violations []domain.Violation

	for _, c := range constraints {
		el := d.Find(c.path)
		if el == nil {
			violations = append(violations, domain.Violation{
				Path:       c.path,
				Constraint: "required element is missing",
			})
			continue
		}

		text := strings.TrimSpace(el.Text())

		if len(c.enum) > 0 {
			if !contains(c.enum, text) {
				violations = append(violations, domain.Violation{
					Path:       c.path,
					Constraint: "value " + strconv.Quote(text) + " is not one of " + strings.Join(c.enum, ", "),
				})
			}
			continue
		}

		if c.positive {
			v, err := strconv.ParseFloat(text, 64)
			if err != nil || v <= 0 {
				violations = append(violations, domain.Violation{
					Path:       c.path,
					Constraint: "value " + strconv.Quote(text) + " is not a positive number",
				})
			}
		}
	}

	// Every repeated component needs a SystemIdentifier for the engine to
	// reference it.
	for _, tag := range []string{"Wall", "Window"} {
		for _, el := range d.FindAll("Building/BuildingDetails/Enclosure//" + tag) {
			id := el.SelectElement("SystemIdentifier")
			if id == nil || id.SelectAttr("id") == nil {
				violations = append(violations, domain.Violation{
					Path:       tag,
					Constraint: "component lacks a SystemIdentifier id",
				})
			}
		}
	}

	return violations
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}
