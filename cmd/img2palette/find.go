package main

import (
	"fmt"
	"image"
	"sort"
	"time"

	img2palette "github.com/wbrown/img2palette"
	"github.com/wbrown/img2palette/imageutil"
)

func runFind(opt *findOptions) error {
	if len(opt.inputs) == 0 {
		return fmt.Errorf("no input files specified")
	}

	specs := opt.colors
	if opt.paletteFile != "" {
		fromFile, err := loadPaletteFile(opt.paletteFile)
		if err != nil {
			return err
		}
		specs = append(specs, fromFile...)
	}
	colors, err := parseColors(specs)
	if err != nil {
		return err
	}

	multi := len(opt.inputs) > 1
	cache := make(imageutil.LabCache)
	for _, path := range opt.inputs {
		if err := findOne(opt, path, colors, multi, cache); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func findOne(opt *findOptions, path string, colors []img2palette.Srgb, multi bool, cache imageutil.LabCache) error {
	// With several inputs the percentage lines need attributing.
	if multi && opt.pct {
		fmt.Println(path)
	}

	img, err := imageutil.LoadImage(path)
	if err != nil {
		return err
	}
	img = imageutil.Fit(img, opt.maxSize)

	if opt.rgb {
		return findPixels(opt, path, multi, img, colors, func(opaqueOnly bool) []img2palette.Srgb {
			return imageutil.SrgbPixels(img, opaqueOnly)
		})
	}

	centroids := make([]img2palette.Lab, len(colors))
	for i, c := range colors {
		centroids[i] = c.Lab()
	}
	return findPixels(opt, path, multi, img, centroids, func(opaqueOnly bool) []img2palette.Lab {
		return imageutil.LabPixels(img, opaqueOnly, cache)
	})
}

// findPixels recolors one image with the user's colors. Without
// replace, every pixel simply maps to its nearest user color. With
// replace, k-means runs with k equal to the color count and the user
// colors stand in for the discovered clusters from darkest to lightest.
func findPixels[P colorPoint[P]](opt *findOptions, path string, multi bool, img *image.NRGBA, centroids []P, extract func(opaqueOnly bool) []P) error {
	if !opt.replace {
		indices := img2palette.ClosestIndices(extract(opt.transparent), centroids)

		if opt.pct {
			printColors(img2palette.SortIndexedColors(centroids, indices), true)
		}

		if opt.transparent {
			indices = img2palette.ClosestIndices(extract(false), centroids)
		}
		recolored, err := paint(img, centroids, indices, opt.transparent)
		if err != nil {
			return err
		}
		return imageutil.SaveImage(recolored, outputFilename(path, opt.output, "png", 0, multi, time.Now()))
	}

	cfg := img2palette.Config{
		K:        len(centroids),
		MaxIter:  opt.maxIter,
		Converge: converge(opt.factor, opt.factorSet, opt.rgb),
		Verbose:  opt.verbose,
		Seed:     opt.seed,
	}
	result, err := bestOf(cfg, opt.runs, extract(opt.transparent))
	if err != nil {
		return err
	}

	// Rank the discovered clusters by lightness, then substitute the
	// user colors in that order: the darkest user color takes over the
	// darkest cluster, and so on.
	data := img2palette.SortIndexedColors(result.Centroids, result.Indices)
	for i := range data {
		if i < len(centroids) {
			data[i].Centroid = centroids[i]
		}
	}

	if opt.pct {
		printColors(data, true)
	}

	// Restore centroid order so the run's indices address the
	// substituted colors. Clusters that ended up empty are missing from
	// data, which shortens the list; MapIndices absorbs the gap.
	sort.Slice(data, func(a, b int) bool { return data[a].Index < data[b].Index })
	substituted := make([]P, len(data))
	for i, d := range data {
		substituted[i] = d.Centroid
	}

	indices := result.Indices
	if opt.transparent {
		indices = img2palette.ClosestIndices(extract(false), result.Centroids)
	}
	recolored, err := paint(img, substituted, indices, opt.transparent)
	if err != nil {
		return err
	}
	return imageutil.SaveImage(recolored, outputFilename(path, opt.output, "png", 0, multi, time.Now()))
}
