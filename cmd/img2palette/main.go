// img2palette finds the dominant colors of images by k-means clustering
// and writes the recolored image, a palette strip, or the colors as
// text.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	inputs        []string
	k             int
	maxIter       int
	factor        float32
	factorSet     bool
	runs          int
	seed          uint64
	ext           string
	print         bool
	pct           bool
	rgb           bool
	noFile        bool
	verbose       bool
	output        string
	palette       bool
	paletteOutput string
	proportional  bool
	height        int
	width         int
	sortPct       bool
	transparent   bool
	maxSize       int
	labels        bool
	fontPath      string
}

type findOptions struct {
	inputs      []string
	colors      []string
	paletteFile string
	replace     bool
	maxIter     int
	factor      float32
	factorSet   bool
	runs        int
	seed        uint64
	pct         bool
	rgb         bool
	verbose     bool
	output      string
	transparent bool
	maxSize     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opt := &options{}
	cmd := &cobra.Command{
		Use:   "img2palette",
		Short: "Simple k-means clustering to find dominant colors in images",
		Long: `img2palette clusters the pixels of an image into k representative
colors. By default clustering runs in the perceptual Lab space, which
tends toward true-to-image segments of color; --rgb clusters in sRGB,
which resembles a posterization filter at low k.

The algorithm can fall into local minima; run it several times with
--runs and the best result is kept.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opt.factorSet = cmd.Flags().Changed("factor")
			setupLogging(opt.verbose)
			return run(opt)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opt.inputs, "input", "i", nil, "input image file(s), separated by commas")
	f.IntVarP(&opt.k, "k", "k", 8, "number of clusters (1-255)")
	f.IntVarP(&opt.maxIter, "iterations", "m", 20, "maximum number of iterations per run")
	f.Float32VarP(&opt.factor, "factor", "f", 0, "convergence factor (default 5.0 for Lab, 0.0025 for RGB)")
	f.IntVarP(&opt.runs, "runs", "r", 1, "number of runs, keeping the lowest score")
	f.Uint64Var(&opt.seed, "seed", 0, "seed for the random number generator")
	f.StringVarP(&opt.ext, "ext", "e", "png", "file extension of the output image")
	f.BoolVarP(&opt.print, "print", "p", false, "print the k-means colors")
	f.BoolVar(&opt.pct, "pct", false, "print the percentage of each color in the image")
	f.BoolVar(&opt.rgb, "rgb", false, "cluster in sRGB instead of Lab")
	f.BoolVar(&opt.noFile, "no-file", false, "do not write the recolored image")
	f.BoolVarP(&opt.verbose, "verbose", "v", false, "report convergence scores and iteration counts")
	f.StringVarP(&opt.output, "output", "o", "", "output file; appended to the input stem for multiple inputs")
	f.BoolVar(&opt.palette, "palette", false, "write the palette as an image strip")
	f.StringVar(&opt.paletteOutput, "palette-output", "", "output file for the palette strip")
	f.BoolVar(&opt.proportional, "proportional", false, "size palette swatches by color occurrence")
	f.IntVar(&opt.height, "height", 40, "height of the palette strip in pixels")
	f.IntVar(&opt.width, "width", 0, "width of the palette strip (default height * k)")
	f.BoolVar(&opt.sortPct, "sort", false, "order printed colors by descending percentage instead of luminosity")
	f.BoolVar(&opt.transparent, "transparent", false, "cluster only fully opaque pixels and keep transparency in the output")
	f.IntVar(&opt.maxSize, "max-size", 0, "downscale images whose longer side exceeds this before clustering")
	f.BoolVar(&opt.labels, "labels", false, "draw percentage labels on the palette strip")
	f.StringVar(&opt.fontPath, "font", "", "TTF font file for palette labels")

	cmd.AddCommand(newFindCmd())
	return cmd
}

func newFindCmd() *cobra.Command {
	opt := &findOptions{}
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Map image pixels to user-supplied colors",
		Long: `find uses the supplied colors as centroids and recolors each pixel
with the nearest one. With --replace, the k-means are calculated as
usual and the supplied colors replace the discovered ones from darkest
to lightest.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opt.factorSet = cmd.Flags().Changed("factor")
			setupLogging(opt.verbose)
			return runFind(opt)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opt.inputs, "input", "i", nil, "input image file(s), separated by commas")
	f.StringSliceVarP(&opt.colors, "colors", "c", nil, "hex colors to map the pixels to, separated by commas")
	f.StringVar(&opt.paletteFile, "palette-file", "", "YAML or JSON file with a list of hex colors")
	f.BoolVar(&opt.replace, "replace", false, "replace the k-means-indexed colors in the image")
	f.IntVarP(&opt.maxIter, "iterations", "m", 20, "maximum number of iterations per run")
	f.Float32VarP(&opt.factor, "factor", "f", 0, "convergence factor (default 5.0 for Lab, 0.0025 for RGB)")
	f.IntVarP(&opt.runs, "runs", "r", 3, "number of runs, keeping the lowest score")
	f.Uint64Var(&opt.seed, "seed", 0, "seed for the random number generator")
	f.BoolVar(&opt.pct, "pct", false, "print the percentage of each color in the image")
	f.BoolVar(&opt.rgb, "rgb", false, "work in sRGB instead of Lab")
	f.BoolVarP(&opt.verbose, "verbose", "v", false, "report convergence scores and iteration counts")
	f.StringVarP(&opt.output, "output", "o", "", "output file; appended to the input stem for multiple inputs")
	f.BoolVar(&opt.transparent, "transparent", false, "map only fully opaque pixels and keep transparency in the output")
	f.IntVar(&opt.maxSize, "max-size", 0, "downscale images whose longer side exceeds this before clustering")

	return cmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
