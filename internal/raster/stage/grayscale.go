package stage

import (
	"github.com/anthonynsimon/bild/effect"
	"github.com/rm-hull/image-toolbox/internal/raster"
)

type GrayscaleStage struct{}

// Process converts the image to greyscale using luminance calculation
func (s *GrayscaleStage) Process(p *raster.Image) error {
	p.Set(effect.Grayscale(p.Img))
	return nil
}
