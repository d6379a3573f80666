package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth-labs/hearth-cli/internal/adapters/driven/storage/sqlite"
)

const houseFixture = `<?xml version="1.0"?>
<HouseFile>
  <House>
    <Specifications>
      <HouseType code="SingleDetached"/>
      <YearBuilt>1975</YearBuilt>
      <HeatedFloorArea aboveGrade="120" belowGrade="60"/>
    </Specifications>
    <Components>
      <Wall>
        <Construction><Type rValue="3.5"/></Construction>
        <Measurements height="2.4" width="10"/>
      </Wall>
    </Components>
    <HeatingCooling>
      <Type1><Furnace>
        <Equipment><EnergySource code="2"/></Equipment>
        <Specifications><OutputCapacity>20</OutputCapacity></Specifications>
      </Furnace></Type1>
    </HeatingCooling>
  </House>
  <Weather><Location code="62"/></Weather>
</HouseFile>`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hearth")
}

func TestRunCommandRejectsUnknownMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.h2k"), []byte(houseFixture), 0o644))

	_, err := execute(t, "run", dir, "--out", t.TempDir(), "--mode", "speculative")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestRunAndReportEndToEnd(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "house.h2k"), []byte(houseFixture), 0o644))
	outDir := t.TempDir()

	out, err := execute(t, "run", srcDir, "--out", outDir, "--mode", "as_built", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Succeeded:  1")

	assert.FileExists(t, filepath.Join(outDir, "house.xml"))
	assert.FileExists(t, filepath.Join(outDir, sqlite.DBFileName))

	out, err = execute(t, "report", "--out", outDir, "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Records:   1")
	assert.Contains(t, out, "house.h2k")
}

func TestRunCommandFailureSetsExitError(t *testing.T) {
	srcDir := t.TempDir()
	bad := []byte(`<HouseFile><House/></HouseFile>`)
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "bad.h2k"), bad, 0o644))

	_, err := execute(t, "run", srcDir, "--out", t.TempDir(), "--mode", "as_built", "--workers", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}
