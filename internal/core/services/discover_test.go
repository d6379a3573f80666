package services

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("<HouseFile/>"), 0o644))
	return p
}

func TestDiscoverScansDirectoriesRecursively(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, dir, "a.h2k")
	b := touch(t, dir, "nested/b.h2k")
	upper := touch(t, dir, "c.H2K")
	touch(t, dir, "ignored.xml")
	touch(t, dir, "notes.txt")

	files, err := Discover([]string{dir})
	require.NoError(t, err)

	want := []string{a, b, upper}
	sort.Strings(want)
	assert.Equal(t, want, files)
}

func TestDiscoverAcceptsExplicitFilesAsGiven(t *testing.T) {
	dir := t.TempDir()
	// An explicitly named file is taken even with a foreign extension.
	odd := touch(t, dir, "renamed.xml")

	files, err := Discover([]string{odd})
	require.NoError(t, err)
	assert.Equal(t, []string{odd}, files)
}

func TestDiscoverDeduplicates(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, dir, "a.h2k")

	files, err := Discover([]string{a, dir, a})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}

func TestDiscoverMissingInput(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "absent.h2k")})
	assert.Error(t, err)
}

func TestDiscoverEmptyDirectory(t *testing.T) {
	_, err := Discover([]string{t.TempDir()})
	assert.Error(t, err)
}
