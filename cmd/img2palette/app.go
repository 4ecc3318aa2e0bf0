package main

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	img2palette "github.com/wbrown/img2palette"
	"github.com/wbrown/img2palette/imageutil"
)

// Default convergence thresholds per clustering space. Lab distances
// run on a 0..100 scale and normalized sRGB on 0..1, so the thresholds
// differ by orders of magnitude.
const (
	defaultConvergeLab = 5.0
	defaultConvergeRgb = 0.0025
)

// colorPoint is what the pipeline needs from a clustering space:
// clusterable, orderable by lightness, and renderable as a color.
type colorPoint[P any] interface {
	img2palette.Point[P]
	img2palette.Sortable
	Hex() string
	NRGBA() color.NRGBA
}

func run(opt *options) error {
	if len(opt.inputs) == 0 {
		return fmt.Errorf("no input files specified")
	}
	if opt.labels && opt.fontPath == "" {
		return fmt.Errorf("--labels needs a TTF file via --font")
	}

	multi := len(opt.inputs) > 1
	// The conversion cache survives across inputs; photo sets from the
	// same source share most of their distinct pixel values.
	cache := make(imageutil.LabCache)
	for _, path := range opt.inputs {
		if err := extractOne(opt, path, multi, cache); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func extractOne(opt *options, path string, multi bool, cache imageutil.LabCache) error {
	if opt.verbose {
		fmt.Println(path)
	}

	img, err := imageutil.LoadImage(path)
	if err != nil {
		return err
	}
	img = imageutil.Fit(img, opt.maxSize)

	cfg := img2palette.Config{
		K:        opt.k,
		MaxIter:  opt.maxIter,
		Converge: converge(opt.factor, opt.factorSet, opt.rgb),
		Verbose:  opt.verbose,
		Seed:     opt.seed,
	}

	if opt.rgb {
		return processImage(opt, path, multi, img, cfg, func(opaqueOnly bool) []img2palette.Srgb {
			return imageutil.SrgbPixels(img, opaqueOnly)
		})
	}
	return processImage(opt, path, multi, img, cfg, func(opaqueOnly bool) []img2palette.Lab {
		return imageutil.LabPixels(img, opaqueOnly, cache)
	})
}

// processImage runs the clustering for one image and emits whatever the
// flags asked for: printed colors, a palette strip, the recolored
// image. The extract callback re-reads the pixel buffer; with
// transparent set, clustering sees only opaque pixels while the output
// image maps every pixel.
func processImage[P colorPoint[P]](opt *options, path string, multi bool, img *image.NRGBA, cfg img2palette.Config, extract func(opaqueOnly bool) []P) error {
	result, err := bestOf(cfg, opt.runs, extract(opt.transparent))
	if err != nil {
		return err
	}

	if opt.print || opt.pct || opt.palette {
		data := img2palette.SortIndexedColors(result.Centroids, result.Indices)
		if opt.sortPct {
			sort.SliceStable(data, func(a, b int) bool {
				return data[a].Percentage > data[b].Percentage
			})
		}

		if opt.print || opt.pct {
			printColors(data, opt.pct)
		}

		if opt.palette {
			var labels *img2palette.LabelOptions
			if opt.labels {
				labels = &img2palette.LabelOptions{FontPath: opt.fontPath}
			}
			title := paletteFilename(path, opt.paletteOutput, opt.rgb, cfg.K, multi, time.Now())
			swatches := img2palette.Swatches(data)
			if err := img2palette.SavePalette(swatches, opt.proportional, opt.height, opt.width, labels, title); err != nil {
				return err
			}
		}
	}

	if opt.noFile {
		return nil
	}

	indices := result.Indices
	if opt.transparent {
		indices = img2palette.ClosestIndices(extract(false), result.Centroids)
	}
	recolored, err := paint(img, result.Centroids, indices, opt.transparent)
	if err != nil {
		return err
	}
	return imageutil.SaveImage(recolored, outputFilename(path, opt.output, opt.ext, cfg.K, multi, time.Now()))
}

// bestOf runs the clustering runs times with consecutive seeds and
// keeps the result with the lowest score. A single cluster converges in
// one pass of the naive engine; anything larger goes through the
// accelerated one. Runs execute concurrently, and each result depends
// only on its seed, so scheduling does not affect the outcome.
func bestOf[P img2palette.Point[P]](cfg img2palette.Config, runs int, buf []P) (img2palette.Result[P], error) {
	if runs < 1 {
		runs = 1
	}

	results := make([]img2palette.Result[P], runs)
	var g errgroup.Group
	for i := 0; i < runs; i++ {
		i := i
		run := cfg
		run.Seed = cfg.Seed + uint64(i)
		g.Go(func() error {
			var err error
			if run.K == 1 {
				results[i], err = img2palette.Run(run, buf)
			} else {
				results[i], err = img2palette.RunHamerly(run, buf)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return img2palette.Result[P]{}, err
	}

	best := img2palette.NewResult[P]()
	for _, r := range results {
		best = best.Better(r)
	}
	return best, nil
}

// printColors writes the colors as bare hex values on one comma-joined
// line, followed by their percentages when asked for.
func printColors[P colorPoint[P]](data []img2palette.CentroidData[P], pct bool) {
	hexes := make([]string, len(data))
	for i, d := range data {
		hexes[i] = strings.TrimPrefix(d.Centroid.Hex(), "#")
	}
	fmt.Println(strings.Join(hexes, ","))

	if pct {
		pcts := make([]string, len(data))
		for i, d := range data {
			pcts[i] = fmt.Sprintf("%0.4f", d.Percentage)
		}
		fmt.Println(strings.Join(pcts, ","))
	}
}

// paint maps indices back to renderable colors and builds the recolored
// image.
func paint[P colorPoint[P]](img *image.NRGBA, centroids []P, indices []uint8, transparent bool) (*image.NRGBA, error) {
	mapped := img2palette.MapIndices(centroids, indices)
	colors := make([]color.NRGBA, len(mapped))
	for i, p := range mapped {
		colors[i] = p.NRGBA()
	}
	return imageutil.PaintPixels(img, colors, transparent)
}

func converge(factor float32, set, rgb bool) float32 {
	if set {
		return factor
	}
	if rgb {
		return defaultConvergeRgb
	}
	return defaultConvergeLab
}
