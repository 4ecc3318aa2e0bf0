package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	img2palette "github.com/wbrown/img2palette"
)

// paletteFile is the on-disk palette format: a mapping with a colors
// key, or a bare list of hex strings. YAML is a superset of JSON, so
// .json palettes parse through the same path.
type paletteFile struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

func loadPaletteFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}

	var pf paletteFile
	if err := yaml.Unmarshal(data, &pf); err == nil && len(pf.Colors) > 0 {
		return pf.Colors, nil
	}

	var bare []string
	if err := yaml.Unmarshal(data, &bare); err == nil && len(bare) > 0 {
		return bare, nil
	}

	return nil, fmt.Errorf("palette file %s holds no colors", path)
}

// parseColors turns hex strings into sRGB centroids, tolerating a
// missing leading '#'.
func parseColors(specs []string) ([]img2palette.Srgb, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no colors specified; use --colors or --palette-file")
	}
	if len(specs) > img2palette.MaxK {
		return nil, fmt.Errorf("at most %d colors are supported, got %d", img2palette.MaxK, len(specs))
	}

	out := make([]img2palette.Srgb, len(specs))
	for i, s := range specs {
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, "#") {
			s = "#" + s
		}
		c, err := img2palette.SrgbFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", specs[i], err)
		}
		out[i] = c
	}
	return out, nil
}
