package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/rm-hull/image-toolbox/internal/raster"
)

func Animate(outfile string, frames []string, frameDelay float64) error {
	format, err := raster.FormatFromPath(outfile)
	if err != nil {
		return err
	}
	if format != raster.PNG {
		return fmt.Errorf("%w: animations are written as APNG and need a .png extension, got %s", raster.ErrUnsupportedFormat, outfile)
	}

	apngBytes, err := raster.Animate(frames, frameDelay)
	if err != nil {
		return fmt.Errorf("failed to build animation: %w", err)
	}

	if err := os.WriteFile(outfile, apngBytes, 0644); err != nil {
		return fmt.Errorf("%w %s: %w", raster.ErrOutputWrite, outfile, err)
	}

	log.Printf("Wrote %d frames to %s", len(frames), outfile)
	return nil
}
