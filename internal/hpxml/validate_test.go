package hpxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeDocument builds a document satisfying every structural constraint.
func completeDocument() *Document {
	d := New()
	d.SetAttr("Building/BuildingID", "id", "bldg1")
	d.Set("Building/ProjectStatus/EventType", EventTypeAudit)
	d.Set("Building/BuildingDetails/BuildingSummary/BuildingConstruction/ResidentialFacilityType", "single-family detached")
	d.Set("Building/BuildingDetails/BuildingSummary/BuildingConstruction/ConditionedFloorArea", "1937.5")
	d.Set("Building/BuildingDetails/ClimateandRiskZones/WeatherStation/Name", "Ottawa")
	wall := d.Add("Building/BuildingDetails/Enclosure/Walls", "Wall")
	wall.CreateElement("SystemIdentifier").CreateAttr("id", "wall1")
	d.Ensure("Building/BuildingDetails/Systems/HVAC/HVACPlant")
	return d
}

func TestValidateCompleteDocument(t *testing.T) {
	assert.Empty(t, Validate(completeDocument()))
}

func TestValidateCollectsAllViolations(t *testing.T) {
	// A bare document violates every required-element constraint at once.
	violations := Validate(New())
	require.NotEmpty(t, violations)
	assert.GreaterOrEqual(t, len(violations), 5)

	paths := make([]string, len(violations))
	for i, v := range violations {
		paths[i] = v.Path
	}
	assert.Contains(t, paths, "Building/BuildingID")
	assert.Contains(t, paths, "Building/BuildingDetails/Enclosure/Walls/Wall")
}

func TestValidateEventTypeEnum(t *testing.T) {
	d := completeDocument()
	d.Set("Building/ProjectStatus/EventType", "renovation")

	violations := Validate(d)
	require.Len(t, violations, 1)
	assert.Equal(t, "Building/ProjectStatus/EventType", violations[0].Path)
}

func TestValidateFloorAreaMustBePositive(t *testing.T) {
	for _, bad := range []string{"0", "-12", "lots"} {
		d := completeDocument()
		d.Set("Building/BuildingDetails/BuildingSummary/BuildingConstruction/ConditionedFloorArea", bad)

		violations := Validate(d)
		require.Len(t, violations, 1, "area %q", bad)
		assert.Contains(t, violations[0].Constraint, "positive")
	}
}

func TestValidateComponentsNeedSystemIdentifiers(t *testing.T) {
	d := completeDocument()
	d.Add("Building/BuildingDetails/Enclosure/Windows", "Window")

	violations := Validate(d)
	require.Len(t, violations, 1)
	assert.Equal(t, "Window", violations[0].Path)
	assert.Contains(t, violations[0].Constraint, "SystemIdentifier")
}
