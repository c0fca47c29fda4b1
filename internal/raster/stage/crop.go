package stage

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/image-toolbox/internal/raster"
)

type CropStage struct {
	Rect image.Rectangle
}

// Process cuts out Rect, clipped to the image bounds
// The result is re-based so its top-left pixel is at the origin
func (s *CropStage) Process(p *raster.Image) error {
	if s.Rect.Intersect(p.Bounds).Empty() {
		return fmt.Errorf("%w: crop region %v lies outside the image %v", ErrInvalidStep, s.Rect, p.Bounds)
	}
	p.Set(imaging.Crop(p.Img, s.Rect))
	return nil
}
