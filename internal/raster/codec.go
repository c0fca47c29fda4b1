package raster

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrOutputWrite       = errors.New("failed writing output file")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// JPEGQuality is used whenever an image is encoded as JPEG
var JPEGQuality = 95

type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
	GIF  Format = "gif"
	TIFF Format = "tiff"
)

var extensions = map[string]Format{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".bmp":  BMP,
	".gif":  GIF,
	".tif":  TIFF,
	".tiff": TIFF,
}

// FormatFromPath infers the output format from the file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q (when in doubt, use a .png extension)", ErrUnsupportedFormat, path)
	}
	return format, nil
}

// ParseFormat accepts a format name such as "png" or "jpg"
func ParseFormat(name string) (Format, error) {
	return FormatFromPath("." + name)
}

func (f Format) ContentType() string {
	return "image/" + string(f)
}

func (f Format) encoder() imgio.Encoder {
	switch f {
	case JPEG:
		return imgio.JPEGEncoder(JPEGQuality)
	case BMP:
		return imgio.BMPEncoder()
	case GIF:
		return func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}
	case TIFF:
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return imgio.PNGEncoder()
	}
}

// Open decodes any of the registered formats (png, jpeg, gif, bmp, tiff, webp)
func Open(path string) (*Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return New(img), nil
}

// Save writes the image to path, overwriting any existing file. The encoder
// is chosen from the file extension.
func (p *Image) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, p.Img, format.encoder()); err != nil {
		return fmt.Errorf("%w %s: %w", ErrOutputWrite, path, err)
	}
	return nil
}

func (p *Image) Encode(w io.Writer, format Format) error {
	if err := format.encoder()(w, p.Img); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}
