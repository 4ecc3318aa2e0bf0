package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	img2palette "github.com/wbrown/img2palette"
)

func writePalette(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPaletteFileMapping(t *testing.T) {
	path := writePalette(t, "pal.yaml", `
name: sunset
colors:
  - "#ff0000"
  - "#ffa500"
  - "#222244"
`)

	colors, err := loadPaletteFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"#ff0000", "#ffa500", "#222244"}, colors)
}

func TestLoadPaletteFileBareList(t *testing.T) {
	path := writePalette(t, "pal.yaml", `["#010203", "aabbcc"]`)

	colors, err := loadPaletteFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"#010203", "aabbcc"}, colors)
}

func TestLoadPaletteFileJSON(t *testing.T) {
	path := writePalette(t, "pal.json", `{"name": "mono", "colors": ["#000000", "#ffffff"]}`)

	colors, err := loadPaletteFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"#000000", "#ffffff"}, colors)
}

func TestLoadPaletteFileEmpty(t *testing.T) {
	path := writePalette(t, "pal.yaml", `name: empty`)

	_, err := loadPaletteFile(path)
	assert.Error(t, err)
}

func TestLoadPaletteFileMissing(t *testing.T) {
	_, err := loadPaletteFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseColors(t *testing.T) {
	got, err := parseColors([]string{"#ff0000", "00ff00"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, got[0].R, 1e-6)
	assert.InDelta(t, 1.0, got[1].G, 1e-6)
}

func TestParseColorsRejectsInvalid(t *testing.T) {
	_, err := parseColors([]string{"#ff0000", "chartreuse"})
	assert.Error(t, err)
}

func TestParseColorsRejectsEmpty(t *testing.T) {
	_, err := parseColors(nil)
	assert.Error(t, err)
}

func TestParseColorsRejectsTooMany(t *testing.T) {
	specs := make([]string, img2palette.MaxK+1)
	for i := range specs {
		specs[i] = "#123456"
	}
	_, err := parseColors(specs)
	assert.Error(t, err)
}
