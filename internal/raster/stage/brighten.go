package stage

import (
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/image-toolbox/internal/raster"
)

type BrightenStage struct {
	Delta int
}

// Process adds Delta to each straight (non-premultiplied) colour channel, saturating at 0 and 255
// Positive values brighten the image, negative values darken it, alpha is left untouched
func (s *BrightenStage) Process(p *raster.Image) error {
	p.Set(imaging.AdjustFunc(p.Img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp(int(c.R) + s.Delta),
			G: clamp(int(c.G) + s.Delta),
			B: clamp(int(c.B) + s.Delta),
			A: c.A,
		}
	}))
	return nil
}

func clamp(v int) uint8 {
	return uint8(max(0, min(v, 255)))
}
