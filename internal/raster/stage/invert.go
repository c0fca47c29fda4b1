package stage

import (
	"github.com/anthonynsimon/bild/effect"
	"github.com/rm-hull/image-toolbox/internal/raster"
)

type InvertStage struct{}

func (s *InvertStage) Process(p *raster.Image) error {
	p.Set(effect.Invert(p.Img))
	return nil
}
