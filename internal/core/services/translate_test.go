package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth-labs/hearth-cli/internal/core/domain"
	"github.com/hearth-labs/hearth-cli/internal/mappings"
)

// houseFixture is a complete single-detached house with no cooling
// equipment.
const houseFixture = `<?xml version="1.0"?>
<HouseFile>
  <House>
    <Specifications>
      <HouseType code="SingleDetached"/>
      <YearBuilt>1975</YearBuilt>
      <Storeys code="Two"/>
      <NumberOfBedrooms>3</NumberOfBedrooms>
      <HeatedFloorArea aboveGrade="120" belowGrade="60"/>
    </Specifications>
    <Components>
      <Wall>
        <Construction><Type rValue="3.5"/></Construction>
        <Measurements height="2.4" width="10"/>
      </Wall>
    </Components>
    <NaturalAirInfiltration>
      <Specifications><BlowerTest airChangeRate="6.8"/></Specifications>
    </NaturalAirInfiltration>
    <HeatingCooling>
      <Type1>
        <Furnace>
          <Equipment><EnergySource code="2"/></Equipment>
          <Specifications>
            <OutputCapacity>20</OutputCapacity>
            <EfficiencyValue>0.95</EfficiencyValue>
          </Specifications>
        </Furnace>
      </Type1>
    </HeatingCooling>
  </House>
  <Weather>
    <Location code="62"/>
    <Region code="5"/>
  </Weather>
</HouseFile>`

// houseNegativeRValue fails enclosure validation.
var houseNegativeRValue = strings.Replace(houseFixture, `rValue="3.5"`, `rValue="-5"`, 1)

func newTranslator(t *testing.T) *TranslationService {
	t.Helper()
	reg, err := mappings.Default()
	require.NoError(t, err)
	return NewTranslationService(reg, domain.ModeAsBuilt, nil)
}

func TestTranslateSuccess(t *testing.T) {
	outcome := newTranslator(t).Translate(context.Background(), []byte(houseFixture), "house.h2k")

	require.Equal(t, domain.StatusSuccess, outcome.Status)
	require.NoError(t, outcome.Err)
	assert.NotEmpty(t, outcome.TargetXML)
	assert.Contains(t, string(outcome.TargetXML), "single-family detached")

	codes := make([]string, len(outcome.Warnings))
	for i, w := range outcome.Warnings {
		codes[i] = w.Code
	}
	assert.Contains(t, codes, domain.WarnNoCoolingSpecified)
}

func TestTranslateIsDeterministic(t *testing.T) {
	tr := newTranslator(t)

	first := tr.Translate(context.Background(), []byte(houseFixture), "house.h2k")
	second := tr.Translate(context.Background(), []byte(houseFixture), "house.h2k")

	require.Equal(t, domain.StatusSuccess, first.Status)
	require.Equal(t, domain.StatusSuccess, second.Status)
	assert.Equal(t, first.TargetXML, second.TargetXML)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestTranslateSurfacesRecordedErrors(t *testing.T) {
	// A cooling capacity that cannot be converted is recorded as a
	// non-fatal error; the run still succeeds, and the observation must
	// reach the outcome rather than die with the ModelState.
	const cooling = `<Type2>
        <AirConditioning>
          <Specifications><RatedCapacity>lots</RatedCapacity></Specifications>
        </AirConditioning>
      </Type2>
    `
	raw := strings.Replace(houseFixture, "</HeatingCooling>", cooling+"</HeatingCooling>", 1)

	outcome := newTranslator(t).Translate(context.Background(), []byte(raw), "house.h2k")

	require.Equal(t, domain.StatusSuccess, outcome.Status)

	var found bool
	for _, w := range outcome.Warnings {
		if w.Code == domain.WarnUnknownEnumValue &&
			w.Field == "House/HeatingCooling/Type2/AirConditioning/Specifications/RatedCapacity" {
			found = true
		}
	}
	assert.True(t, found, "recorded error observation missing from outcome: %v", outcome.Warnings)
}

func TestTranslateFailureCarriesNoTargetBytes(t *testing.T) {
	outcome := newTranslator(t).Translate(context.Background(), []byte(houseNegativeRValue), "bad.h2k")

	require.Equal(t, domain.StatusFailure, outcome.Status)
	assert.Empty(t, outcome.TargetXML)
	assert.Equal(t, "Validation_NegativeRValue", outcome.ErrorType)
	assert.Equal(t, "Enclosure", outcome.ErrorCategory)
}

func TestTranslateMissingRequiredField(t *testing.T) {
	raw := strings.Replace(houseFixture, `<HouseType code="SingleDetached"/>`, "", 1)

	outcome := newTranslator(t).Translate(context.Background(), []byte(raw), "incomplete.h2k")

	require.Equal(t, domain.StatusFailure, outcome.Status)
	assert.Empty(t, outcome.TargetXML)
	assert.Equal(t, "MissingRequiredField_HouseType", outcome.ErrorType)
	assert.Equal(t, "Building", outcome.ErrorCategory)
}

func TestTranslateMalformedDocument(t *testing.T) {
	outcome := newTranslator(t).Translate(context.Background(), []byte("this is not XML"), "junk.h2k")

	require.Equal(t, domain.StatusFailure, outcome.Status)
	assert.Equal(t, domain.FailureTypeParse, outcome.ErrorType)
	assert.Equal(t, domain.CategoryParse, outcome.ErrorCategory)
}

func TestTranslateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := newTranslator(t).Translate(ctx, []byte(houseFixture), "house.h2k")
	assert.Equal(t, domain.StatusFailure, outcome.Status)
}
