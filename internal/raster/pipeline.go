package raster

import (
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

// MaxDimension bounds the width and height of any canvas this package creates on request
const MaxDimension = 1 << 14

type Image struct {
	Img    image.Image
	Bounds image.Rectangle
}

type Stage interface {
	Process(img *Image) error
}

func New(img image.Image) *Image {
	return &Image{
		Img:    img,
		Bounds: img.Bounds(),
	}
}

func NewFromReader(r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return New(img), nil
}

// Solid returns a canvas of the given size filled with a single colour
func Solid(width, height int, c color.Color) *Image {
	return New(imaging.New(width, height, c))
}

// Set replaces the underlying image, keeping Bounds in step
func (p *Image) Set(img image.Image) {
	p.Img = img
	p.Bounds = img.Bounds()
}

func (p *Image) Pipeline(stages ...Stage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}
