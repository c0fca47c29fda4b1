package stage

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/image-toolbox/internal/raster"
)

type RotateStage struct {
	Degrees int
}

// Process rotates the image clockwise by 90, 180 or 270 degrees
func (s *RotateStage) Process(p *raster.Image) error {
	// imaging rotates counter-clockwise
	switch s.Degrees {
	case 90:
		p.Set(imaging.Rotate270(p.Img))
	case 180:
		p.Set(imaging.Rotate180(p.Img))
	case 270:
		p.Set(imaging.Rotate90(p.Img))
	default:
		return fmt.Errorf("%w: invalid rotation amount %d, expected 90, 180 or 270", ErrInvalidStep, s.Degrees)
	}
	return nil
}
