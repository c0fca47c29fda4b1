package stage

import (
	"fmt"

	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/image-toolbox/internal/raster"
)

type BlurStage struct {
	Sigma float64
}

// Process applies a Gaussian blur to the image using the specified Sigma value
// Higher Sigma values result in a more pronounced blur effect
func (s *BlurStage) Process(p *raster.Image) error {
	if s.Sigma < 0 {
		return fmt.Errorf("%w: blur sigma must not be negative, got %g", ErrInvalidStep, s.Sigma)
	}
	p.Set(blur.Gaussian(p.Img, s.Sigma))
	return nil
}
