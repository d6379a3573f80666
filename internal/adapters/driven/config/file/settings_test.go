package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hearth.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir = "/var/hearth/out"
engine_path = "/opt/hot2000/engine"
workers = 4
mode = "reference"
log_file = "/var/log/hearth.log"
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/hearth/out", s.OutputDir)
	assert.Equal(t, "/opt/hot2000/engine", s.EnginePath)
	assert.Equal(t, 4, s.Workers)
	assert.Equal(t, "reference", s.Mode)
	assert.Equal(t, "/var/log/hearth.log", s.LogFile)

	// Unset fields keep their defaults.
	assert.Equal(t, Default().MaxSizeMB, s.MaxSizeMB)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hearth.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = [not toml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	s := Default()
	assert.NoError(t, s.Validate())

	s.Workers = -1
	assert.Error(t, s.Validate())

	s = Default()
	s.Mode = "speculative"
	assert.Error(t, s.Validate())

	s.Mode = ""
	assert.NoError(t, s.Validate())
}
