package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// outputFilename builds the path a recolored image is written to.
//
// A user-supplied output is honored directly for a single input, gaining
// ext when it has no extension of its own. With multiple inputs the
// output stem is appended to each input's stem so the files stay
// distinct. Without an output the name is the input stem, a millisecond
// timestamp, and k; a non-positive k is left out.
func outputFilename(input, output, ext string, k int, multi bool, now time.Time) string {
	if output != "" {
		return mergedFilename(input, output, ext, multi)
	}
	name := fmt.Sprintf("%s-%s", stem(input), timestamp(now))
	if k > 0 {
		name = fmt.Sprintf("%s-%d", name, k)
	}
	return name + "." + ext
}

// paletteFilename names the palette strip: the input stem, a timestamp,
// the clustering space, and k. Palettes are always PNG.
func paletteFilename(input, output string, rgb bool, k int, multi bool, now time.Time) string {
	if output != "" {
		return mergedFilename(input, output, "png", multi)
	}
	space := "lab"
	if rgb {
		space = "rgb"
	}
	return fmt.Sprintf("%s-%s-%s-%d.png", stem(input), timestamp(now), space, k)
}

func mergedFilename(input, output, fallbackExt string, multi bool) string {
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if ext == "" {
		ext = fallbackExt
	}
	if !multi {
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + ext
	}
	name := stem(input) + "-" + stem(output) + "." + ext
	return filepath.Join(filepath.Dir(output), name)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func timestamp(now time.Time) string {
	return fmt.Sprintf("%d%03d", now.Unix(), now.Nanosecond()/1e6)
}
