package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/rm-hull/image-toolbox/internal/raster"
	"github.com/rm-hull/image-toolbox/internal/raster/stage"
)

// Transform reads infile, runs it through the stages and writes the result to outfile
func Transform(infile, outfile string, stages ...raster.Stage) error {
	startTime := time.Now()

	img, err := raster.Open(infile)
	if err != nil {
		return err
	}

	if err := img.Pipeline(stages...); err != nil {
		return fmt.Errorf("failed to process image pipeline: %w", err)
	}

	if err := img.Save(outfile); err != nil {
		return err
	}

	log.Printf("Wrote %s (%dx%d) in %s", outfile, img.Bounds.Dx(), img.Bounds.Dy(), time.Since(startTime))
	return nil
}

// Pipeline applies a sequence of steps, e.g. "blur 2.5 invert rotate 180", in a single pass
func Pipeline(infile, outfile string, steps []string) error {
	stages, err := stage.Parse(steps)
	if err != nil {
		return err
	}
	log.Printf("Processing %s with %d steps", infile, len(stages))
	return Transform(infile, outfile, stages...)
}
