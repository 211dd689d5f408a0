// Package texture decodes the image formats glTF assets reference and
// prepares them for upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for image data no decoder accepts.
var ErrUnsupportedFormat = errors.New("texture: unsupported format")

// Decode decodes data. Formats with magic bytes are sniffed; TGA, which has
// none, is recognised from hint, a file name or MIME type.
func Decode(data []byte, hint string) (image.Image, error) {
	kind, _ := filetype.Match(data)
	r := bytes.NewReader(data)
	switch kind.Extension {
	case "png":
		return png.Decode(r)
	case "jpg":
		return jpeg.Decode(r)
	case "webp":
		return webp.Decode(r)
	case "bmp":
		return bmp.Decode(r)
	}
	if isTGA(hint) {
		return DecodeTGA(data)
	}
	if kind != filetype.Unknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}
	return nil, ErrUnsupportedFormat
}

func isTGA(hint string) bool {
	hint = strings.ToLower(hint)
	return path.Ext(hint) == ".tga" || hint == "image/x-tga" || hint == "image/tga"
}

// ToRGBA returns img as a tightly packed *image.RGBA with its origin at
// (0, 0), converting only when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
