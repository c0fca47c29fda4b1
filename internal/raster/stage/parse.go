package stage

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rm-hull/image-toolbox/internal/raster"
)

var ErrInvalidStep = errors.New("invalid step")

type stepParser struct {
	arity int
	build func(arg string) (raster.Stage, error)
}

var steps = map[string]stepParser{
	"blur": {1, func(arg string) (raster.Stage, error) {
		sigma, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, err
		}
		return &BlurStage{Sigma: sigma}, nil
	}},
	"brighten": {1, func(arg string) (raster.Stage, error) {
		delta, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}
		return &BrightenStage{Delta: delta}, nil
	}},
	"crop": {1, func(arg string) (raster.Stage, error) {
		rect, err := ParseRect(arg)
		if err != nil {
			return nil, err
		}
		return &CropStage{Rect: rect}, nil
	}},
	"rotate": {1, func(arg string) (raster.Stage, error) {
		degrees, err := strconv.Atoi(arg)
		if err != nil {
			return nil, err
		}
		return &RotateStage{Degrees: degrees}, nil
	}},
	"resize": {1, func(arg string) (raster.Stage, error) {
		size, err := ParseSize(arg)
		if err != nil {
			return nil, err
		}
		return &ResizeStage{Size: size}, nil
	}},
	"invert":    {0, func(string) (raster.Stage, error) { return &InvertStage{}, nil }},
	"grayscale": {0, func(string) (raster.Stage, error) { return &GrayscaleStage{}, nil }},
}

// Parse converts a stream of tokens such as "blur 2.5 invert rotate 180"
// into the equivalent stages, in order.
func Parse(tokens []string) ([]raster.Stage, error) {
	stages := make([]raster.Stage, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		name := strings.ToLower(tokens[i])
		parser, ok := steps[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidStep, tokens[i])
		}

		var arg string
		if parser.arity > 0 {
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("%w: %s requires an argument", ErrInvalidStep, name)
			}
			i++
			arg = tokens[i]
		}

		stage, err := parser.build(arg)
		if err != nil {
			if errors.Is(err, ErrInvalidStep) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidStep, name, arg, err)
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// Operations lists the names accepted by Parse
func Operations() []string {
	return slices.Sorted(maps.Keys(steps))
}

func splitInts(s string, n int, what string) ([]int, error) {
	parts := strings.Split(s, "x")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: %s %q must have %d parts separated by 'x'", ErrInvalidStep, what, s, n)
	}
	values := make([]int, n)
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidStep, what, s, err)
		}
		values[i] = v
	}
	return values, nil
}

// ParseRect parses XxYxWIDTHxHEIGHT
func ParseRect(s string) (image.Rectangle, error) {
	v, err := splitInts(s, 4, "region")
	if err != nil {
		return image.Rectangle{}, err
	}
	if v[0] < 0 || v[1] < 0 || v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: region %q must have a non-negative origin and positive size", ErrInvalidStep, s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// ParseSize parses WIDTHxHEIGHT
func ParseSize(s string) (image.Point, error) {
	v, err := splitInts(s, 2, "size")
	if err != nil {
		return image.Point{}, err
	}
	if v[0] <= 0 || v[1] <= 0 {
		return image.Point{}, fmt.Errorf("%w: size %q must be positive", ErrInvalidStep, s)
	}
	if v[0] > raster.MaxDimension || v[1] > raster.MaxDimension {
		return image.Point{}, fmt.Errorf("%w: size %q exceeds the %dx%d limit", ErrInvalidStep, s, raster.MaxDimension, raster.MaxDimension)
	}
	return image.Pt(v[0], v[1]), nil
}

// ParseColor parses RxGxB, each component in 0..255
func ParseColor(s string) (color.NRGBA, error) {
	v, err := splitInts(s, 3, "colour")
	if err != nil {
		return color.NRGBA{}, err
	}
	for _, c := range v {
		if c < 0 || c > 255 {
			return color.NRGBA{}, fmt.Errorf("%w: colour %q components must be within 0..255", ErrInvalidStep, s)
		}
	}
	return color.NRGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: 255}, nil
}
