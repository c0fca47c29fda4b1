package cmd

import (
	"context"
	"log"
	"time"

	"github.com/rm-hull/image-toolbox/internal/fractal"
	"github.com/rm-hull/image-toolbox/internal/raster"
)

func Fractal(ctx context.Context, cfg fractal.Config, outfile string) error {
	startTime := time.Now()

	img, err := fractal.Render(ctx, cfg)
	if err != nil {
		return err
	}

	if err := raster.New(img).Save(outfile); err != nil {
		return err
	}

	log.Printf("Rendered %dx%d fractal (c=%g%+gi) to %s in %s",
		cfg.Width, cfg.Height, cfg.Real, cfg.Imag, outfile, time.Since(startTime))
	return nil
}
