package fractal

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidConfig = errors.New("invalid fractal configuration")

// MaxDimension bounds the canvas width and height
const MaxDimension = 1 << 14

// Config describes a Julia set render of z -> z*z + c.
type Config struct {
	Width  int
	Height int

	// Real and Imag are the parts of the constant c added on every iteration
	Real float32
	Imag float32

	MaxIterations int
	EscapeRadius  float32

	// Span is the width of the complex plane window along each axis, Offset its lower bound
	Span   float32
	Offset float32

	// Gradient scales the pixel coordinates into the red and blue background channels
	Gradient float32

	// Workers limits how many rows are rendered concurrently, zero means one per CPU
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        800,
		Real:          -0.4,
		Imag:          0.6,
		MaxIterations: 255,
		EscapeRadius:  2.0,
		Span:          3.0,
		Offset:        -1.5,
		Gradient:      0.3,
	}
}

func (cfg Config) Validate() error {
	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	case cfg.Width > MaxDimension || cfg.Height > MaxDimension:
		return fmt.Errorf("%w: dimensions %dx%d exceed the %dx%d limit", ErrInvalidConfig, cfg.Width, cfg.Height, MaxDimension, MaxDimension)
	case cfg.MaxIterations < 0:
		return fmt.Errorf("%w: max iterations must not be negative, got %d", ErrInvalidConfig, cfg.MaxIterations)
	case !(cfg.EscapeRadius > 0):
		return fmt.Errorf("%w: escape radius must be positive, got %g", ErrInvalidConfig, cfg.EscapeRadius)
	case !(cfg.Span > 0):
		return fmt.Errorf("%w: span must be positive, got %g", ErrInvalidConfig, cfg.Span)
	case cfg.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, cfg.Workers)
	}
	return nil
}

// Render draws the fractal into a new canvas. Red and blue form a gradient
// over the column and row respectively, green holds the escape count.
// The row index drives the real axis of the sample point.
func Render(ctx context.Context, cfg Config) (*image.RGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	scaleX := cfg.Span / float32(cfg.Width)
	scaleY := cfg.Span / float32(cfg.Height)
	c := complex(cfg.Real, cfg.Imag)
	// green saturates at 255, further iterations cannot change the output
	maxIter := min(cfg.MaxIterations, math.MaxUint8)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y := range cfg.Height {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			blue := saturate(cfg.Gradient * float32(y))
			cx := float32(float32(y)*scaleX) + cfg.Offset
			for x := range cfg.Width {
				cy := float32(float32(x)*scaleY) + cfg.Offset
				green := saturate(float32(Escape(complex(cx, cy), c, maxIter, cfg.EscapeRadius)))
				img.SetRGBA(x, y, color.RGBA{
					R: saturate(cfg.Gradient * float32(x)),
					G: green,
					B: blue,
					A: 255,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

// Escape counts the iterations of z -> z*z + c until |z| exceeds radius or maxIter is reached.
// Every intermediate is rounded to float32, so no step is evaluated at higher precision or fused.
func Escape(z, c complex64, maxIter int, radius float32) int {
	re, im := real(z), imag(z)
	n := 0
	for n < maxIter && abs(re, im) <= radius {
		rr := float32(re * re)
		ii := float32(im * im)
		ri := float32(re * im)
		re, im = float32(rr-ii)+real(c), float32(ri+ri)+imag(c)
		n++
	}
	return n
}

func abs(re, im float32) float32 {
	return float32(math.Hypot(float64(re), float64(im)))
}

// saturate truncates toward zero and clamps to the 8-bit range
func saturate(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= math.MaxUint8:
		return math.MaxUint8
	default:
		return uint8(v)
	}
}
