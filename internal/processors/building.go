package processors

import (
	"fmt"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/core/ports/driven"
	"github.com/hearth-labs/hearth-cli/internal/h2k"
	"github.com/hearth-labs/hearth-cli/internal/hpxml"
	"github.com/hearth-labs/hearth-cli/internal/mappings"
)

// Building domain name in the mapping tables and failure categories.
const categoryBuilding = "Building"

var _ driven.Processor = (*Building)(nil)

// Building translates the house classification: facility type, vintage,
// storeys and bedrooms. It also mints the building identifier.
type Building struct {
	rules *mappings.Registry
}

// NewBuilding creates the building stage.
func NewBuilding(rules *mappings.Registry) *Building {
	return &Building{rules: rules}
}

// Name returns the stage's failure category.
func (b *Building) Name() string { return categoryBuilding }

// Process populates Building identification and BuildingSummary facts.
func (b *Building) Process(src *h2k.Document, state *domain.ModelState, target *hpxml.Document) error {
	idx := state.NextIndex("Building")
	target.SetAttr("Building/BuildingID", "id", fmt.Sprintf("bldg%d", idx))

	for _, field := range []string{
		"House/Specifications/HouseType",
		"House/Specifications/YearBuilt",
		"House/Specifications/Storeys",
		"House/Specifications/NumberOfBedrooms",
	} {
		if err := applyScalar(b.rules, "building", field, categoryBuilding, src, state, target); err != nil {
			return err
		}
	}

	return nil
}
