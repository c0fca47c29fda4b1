package cmd

import (
	"image"
	"image/color"
	"log"

	"github.com/rm-hull/image-toolbox/internal/raster"
)

func Generate(c color.Color, size image.Point, outfile string) error {
	r, g, b, _ := c.RGBA()
	log.Printf("Generating %dx%d image of colour (%d, %d, %d)", size.X, size.Y, r>>8, g>>8, b>>8)

	return raster.Solid(size.X, size.Y, c).Save(outfile)
}
