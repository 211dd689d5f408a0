package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

var errTGATruncated = errors.New("tga: data truncated")

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, errTGATruncated
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&0x20 != 0,
	}
	if data[1] != 0 {
		return tgaHeader{}, errors.New("tga: color-mapped images not supported")
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return tgaHeader{}, fmt.Errorf("tga: unsupported type %d", h.imageType)
	}
	if h.bpp != 24 && h.bpp != 32 {
		return tgaHeader{}, fmt.Errorf("tga: unsupported bit depth %d", h.bpp)
	}
	if h.width == 0 || h.height == 0 {
		return tgaHeader{}, errors.New("tga: empty image")
	}
	return h, nil
}

// DecodeTGA decodes uncompressed and RLE true-colour TGA data.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	w := &tgaWriter{
		img:         image.NewRGBA(image.Rect(0, 0, h.width, h.height)),
		width:       h.width,
		height:      h.height,
		topToBottom: h.topToBottom,
	}
	px := h.bpp / 8
	src := data[offset:]

	if h.imageType == TGATypeUncompressed {
		if len(src) < h.width*h.height*px {
			return nil, errTGATruncated
		}
		for i := 0; i < h.width*h.height; i++ {
			w.put(tgaPixel(src[i*px:], px))
		}
		return w.img, nil
	}

	for !w.full() {
		if len(src) == 0 {
			return nil, errTGATruncated
		}
		packet := src[0]
		src = src[1:]
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if len(src) < px {
				return nil, errTGATruncated
			}
			c := tgaPixel(src, px)
			src = src[px:]
			for range count {
				w.put(c)
			}
			continue
		}
		if len(src) < count*px {
			return nil, errTGATruncated
		}
		for i := range count {
			w.put(tgaPixel(src[i*px:], px))
		}
		src = src[count*px:]
	}
	return w.img, nil
}

// tgaPixel reads one BGR(A) pixel.
func tgaPixel(b []byte, px int) color.RGBA {
	c := color.RGBA{R: b[2], G: b[1], B: b[0], A: 255}
	if px == 4 {
		c.A = b[3]
	}
	return c
}

// tgaWriter stores pixels in file order, flipping bottom-up images.
type tgaWriter struct {
	img           *image.RGBA
	width, height int
	topToBottom   bool
	n             int
}

func (w *tgaWriter) full() bool {
	return w.n >= w.width*w.height
}

func (w *tgaWriter) put(c color.RGBA) {
	if w.full() {
		return
	}
	x, y := w.n%w.width, w.n/w.width
	if !w.topToBottom {
		y = w.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
	w.n++
}
