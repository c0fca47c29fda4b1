package raster

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/kettek/apng"
)

// Animate builds a looping APNG from the given frames, each shown for
// frameDelay seconds. Every frame must match the size of the first.
func Animate(files []string, frameDelay float64) ([]byte, error) {
	if len(files) == 0 {
		return nil, errors.New("no frames to animate")
	}
	if math.IsNaN(frameDelay) || frameDelay < 0 || frameDelay*1000 > math.MaxUint16 {
		return nil, fmt.Errorf("frame delay %gs out of range", frameDelay)
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(files)),
		LoopCount: 0,
	}

	for i, fname := range files {
		img, err := Open(fname)
		if err != nil {
			return nil, err
		}

		if i > 0 && img.Bounds.Size() != a.Frames[0].Image.Bounds().Size() {
			return nil, fmt.Errorf("frame %s is %v, expected %v", fname,
				img.Bounds.Size(), a.Frames[0].Image.Bounds().Size())
		}

		a.Frames[i] = apng.Frame{
			Image:            img.Img,
			DelayNumerator:   uint16(frameDelay * 1000),
			DelayDenominator: 1000,
		}
	}

	var buf bytes.Buffer
	if err := apng.Encode(&buf, a); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
