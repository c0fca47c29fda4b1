package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rm-hull/image-toolbox/cmd"
	"github.com/rm-hull/image-toolbox/internal/fractal"
	"github.com/rm-hull/image-toolbox/internal/raster"
	"github.com/rm-hull/image-toolbox/internal/raster/stage"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var port int
	var debug bool
	var frameDelay float64
	var generateSize string
	fractalCfg := fractal.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:  "image-toolbox",
		Long: `Image manipulation toolbox (when in doubt, use a .png extension on your filenames)`,
		// errors are reported once by main
		SilenceErrors: true,
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			// arguments were valid, so any later failure should not print usage
			c.SilenceUsage = true
		},
		RunE: func(c *cobra.Command, _ []string) error {
			_ = c.Help()
			return errors.New("no subcommand given")
		},
	}
	rootCmd.PersistentFlags().IntVar(&raster.JPEGQuality, "quality", envInt("JPEG_QUALITY", raster.JPEGQuality), "Quality (1-100) used when writing .jpg files")

	// Numeric arguments may be negative, so flag parsing is disabled for "brighten" and "pipeline"
	transformCommands := []struct {
		use     string
		short   string
		nargs   int
		noFlags bool
	}{
		{"blur SIGMA INFILE OUTFILE", "Apply a Gaussian blur", 3, false},
		{"brighten DELTA INFILE OUTFILE", "Brighten (positive) or darken (negative) the image", 3, true},
		{"crop XxYxWIDTHxHEIGHT INFILE OUTFILE", "Crop to a region", 3, false},
		{"rotate 90|180|270 INFILE OUTFILE", "Rotate clockwise", 3, false},
		{"resize WIDTHxHEIGHT INFILE OUTFILE", "Resample to a new size", 3, false},
		{"grayscale INFILE OUTFILE", "Convert to grayscale", 2, false},
	}

	for _, tc := range transformCommands {
		name := strings.Fields(tc.use)[0]
		nargs := tc.nargs
		rootCmd.AddCommand(&cobra.Command{
			Use:                tc.use,
			Short:              tc.short,
			Args:               cobra.ExactArgs(nargs),
			DisableFlagParsing: tc.noFlags,
			RunE: func(_ *cobra.Command, args []string) error {
				// the operation's parameter, if any, precedes the file names
				tokens := append([]string{name}, args[:nargs-2]...)
				stages, err := stage.Parse(tokens)
				if err != nil {
					return err
				}
				return cmd.Transform(args[nargs-2], args[nargs-1], stages...)
			},
		})
	}

	invertCmd := &cobra.Command{
		Use:   "invert INFILE [OUTFILE]",
		Short: "Invert the colours, in place unless OUTFILE is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			outfile := args[len(args)-1]
			return cmd.Transform(args[0], outfile, &stage.InvertStage{})
		},
	}

	pipelineCmd := &cobra.Command{
		Use:   "pipeline INFILE OUTFILE STEP...",
		Short: "Apply several operations in order, e.g. blur 2.5 invert rotate 180 brighten 10",
		Long: fmt.Sprintf("Apply several operations in order, e.g.\n\n  pipeline in.png out.png blur 2.5 invert rotate 180 brighten 10\n\nOperations: %s",
			strings.Join(stage.Operations(), ", ")),
		Args:               cobra.MinimumNArgs(3),
		DisableFlagParsing: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Pipeline(args[0], args[1], args[2:])
		},
	}

	generateCmd := &cobra.Command{
		Use:   "generate RxGxB OUTFILE [--size WIDTHxHEIGHT]",
		Short: "Generate a solid colour image",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			col, err := stage.ParseColor(args[0])
			if err != nil {
				return err
			}
			size, err := stage.ParseSize(generateSize)
			if err != nil {
				return err
			}
			return cmd.Generate(col, size, args[1])
		},
	}
	generateCmd.Flags().StringVar(&generateSize, "size", "800x800", "Image size")

	fractalCmd := &cobra.Command{
		Use:   "fractal OUTFILE",
		Short: "Render a Julia set fractal",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.Fractal(c.Context(), fractalCfg, args[0])
		},
	}
	fractalCmd.Flags().IntVar(&fractalCfg.Width, "width", fractalCfg.Width, "Canvas width in pixels")
	fractalCmd.Flags().IntVar(&fractalCfg.Height, "height", fractalCfg.Height, "Canvas height in pixels")
	fractalCmd.Flags().Float32Var(&fractalCfg.Real, "real", fractalCfg.Real, "Real part of the iteration constant")
	fractalCmd.Flags().Float32Var(&fractalCfg.Imag, "imag", fractalCfg.Imag, "Imaginary part of the iteration constant")
	fractalCmd.Flags().IntVar(&fractalCfg.MaxIterations, "max-iterations", fractalCfg.MaxIterations, "Iteration cap per pixel")
	fractalCmd.Flags().Float32Var(&fractalCfg.EscapeRadius, "escape-radius", fractalCfg.EscapeRadius, "Magnitude at which a point escapes")
	fractalCmd.Flags().IntVar(&fractalCfg.Workers, "workers", fractalCfg.Workers, "Rows rendered concurrently (0 = one per CPU)")

	animateCmd := &cobra.Command{
		Use:   "animate OUTFILE FRAME... [--delay <seconds>]",
		Short: "Combine frames into an animated PNG",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Animate(args[0], args[1:], frameDelay)
		},
	}
	animateCmd.Flags().Float64Var(&frameDelay, "delay", 1.0, "Seconds each frame is shown")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(port, debug)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", envInt("PORT", 8080), "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			cmd.ShowVersion()
		},
	}

	rootCmd.AddCommand(invertCmd, pipelineCmd, generateCmd, fractalCmd, animateCmd, apiServerCmd, versionCmd)
	return rootCmd
}

func envInt(name string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return fallback
	}
	return v
}
