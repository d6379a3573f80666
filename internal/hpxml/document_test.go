package hpxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentHeader(t *testing.T) {
	d := New()

	assert.Equal(t, "HPXML", d.Root().Tag)
	assert.Equal(t, Namespace, d.Root().SelectAttrValue("xmlns", ""))
	assert.Equal(t, SchemaVersion, d.Root().SelectAttrValue("schemaVersion", ""))

	xmlType, ok := d.Text("XMLTransactionHeaderInformation/XMLType")
	require.True(t, ok)
	assert.Equal(t, "HPXML", xmlType)

	// The header must not carry a creation timestamp: output bytes are
	// reproducible across runs.
	assert.Nil(t, d.Find("XMLTransactionHeaderInformation/CreatedDateAndTime"))
}

func TestEnsureAndSet(t *testing.T) {
	d := New()

	d.Set("Building/BuildingDetails/BuildingSummary/BuildingConstruction/YearBuilt", "1975")
	got, ok := d.Text("Building/BuildingDetails/BuildingSummary/BuildingConstruction/YearBuilt")
	require.True(t, ok)
	assert.Equal(t, "1975", got)

	// Ensure is idempotent: setting a sibling must not duplicate parents.
	d.Set("Building/BuildingDetails/BuildingSummary/BuildingConstruction/NumberofBedrooms", "3")
	assert.Len(t, d.FindAll("Building"), 1)
	assert.Len(t, d.FindAll("Building/BuildingDetails/BuildingSummary/BuildingConstruction"), 1)
}

func TestAddCreatesRepeatedComponents(t *testing.T) {
	d := New()

	d.Add("Building/BuildingDetails/Enclosure/Walls", "Wall")
	d.Add("Building/BuildingDetails/Enclosure/Walls", "Wall")

	assert.Len(t, d.FindAll("Building/BuildingDetails/Enclosure/Walls/Wall"), 2)
	assert.Len(t, d.FindAll("Building/BuildingDetails/Enclosure/Walls"), 1)
}

func TestBytesIsDeterministic(t *testing.T) {
	build := func() []byte {
		d := New()
		d.SetAttr("Building/BuildingID", "id", "bldg1")
		d.Set("Building/ProjectStatus/EventType", EventTypeAudit)
		d.Add("Building/BuildingDetails/Enclosure/Walls", "Wall")
		b, err := d.Bytes()
		require.NoError(t, err)
		return b
	}

	assert.Equal(t, build(), build())
}
