package stage

import (
	"fmt"
	"image"

	"github.com/rm-hull/image-toolbox/internal/raster"
	"golang.org/x/image/draw"
)

type ResizeStage struct {
	Size image.Point
}

// Process applies a Catmull-Rom resampling to scale the image to Size
func (s *ResizeStage) Process(p *raster.Image) error {
	if s.Size.X <= 0 || s.Size.Y <= 0 {
		return fmt.Errorf("%w: resize dimensions must be positive, got %dx%d", ErrInvalidStep, s.Size.X, s.Size.Y)
	}
	resized := image.NewNRGBA(image.Rectangle{Max: s.Size})
	draw.CatmullRom.Scale(resized, resized.Bounds(), p.Img, p.Bounds, draw.Over, nil)
	p.Set(resized)
	return nil
}
