package pixelate

import (
	"fmt"
	"image"
	"image/color"
)

// Color is an 8-bit-per-channel RGB color with no alpha.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA returns c as an opaque color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// PixelBuffer is a mutable width x height grid of RGB samples.
//
// Samples are packed three bytes per pixel in row-major order. The origin is
// always (0,0). PixelBuffer satisfies image.Image so a snapshot can be passed
// straight to an encoder.
//
// PixelBuffer does no locking of its own. Concurrent writers must target
// disjoint coordinates, and readers of the whole buffer must be excluded from
// writers by the caller (see OutputSync).
type PixelBuffer struct {
	width  int
	height int
	pix    []uint8
}

// NewPixelBuffer returns a black buffer of the given size.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("buffer size %dx%d: %w", width, height, ErrInvalidArgument)
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*3),
	}, nil
}

// FromImage copies the samples of img into a new buffer. Alpha is discarded and
// 16-bit samples are reduced to their high byte. The result is re-based so that
// img.Bounds().Min maps to (0,0).
func FromImage(img image.Image) (*PixelBuffer, error) {
	b := img.Bounds()
	buf, err := NewPixelBuffer(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < buf.height; y++ {
			row := rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y+y):]
			dst := buf.pix[y*buf.width*3:]
			for x := 0; x < buf.width; x++ {
				dst[x*3+0] = row[x*4+0]
				dst[x*3+1] = row[x*4+1]
				dst[x*3+2] = row[x*4+2]
			}
		}
		return buf, nil
	}

	for y := 0; y < buf.height; y++ {
		for x := 0; x < buf.width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			buf.Set(x, y, Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)})
		}
	}
	return buf, nil
}

// NewBuffers builds the source and result buffers for one render. Both start
// with identical samples; only result is ever written.
func NewBuffers(img image.Image) (source, result *PixelBuffer, err error) {
	source, err = FromImage(img)
	if err != nil {
		return nil, nil, err
	}
	return source, source.Clone(), nil
}

// Width returns the buffer width in pixels.
func (p *PixelBuffer) Width() int { return p.width }

// Height returns the buffer height in pixels.
func (p *PixelBuffer) Height() int { return p.height }

// Get returns the color at (x, y). Coordinates outside the buffer read as black.
func (p *PixelBuffer) Get(x, y int) Color {
	if !p.in(x, y) {
		return Color{}
	}
	i := (y*p.width + x) * 3
	return Color{R: p.pix[i], G: p.pix[i+1], B: p.pix[i+2]}
}

// Set writes c at (x, y). Writes outside the buffer are ignored.
func (p *PixelBuffer) Set(x, y int, c Color) {
	if !p.in(x, y) {
		return
	}
	i := (y*p.width + x) * 3
	p.pix[i] = c.R
	p.pix[i+1] = c.G
	p.pix[i+2] = c.B
}

// Clone returns a deep copy of the buffer.
func (p *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(p.pix))
	copy(pix, p.pix)
	return &PixelBuffer{width: p.width, height: p.height, pix: pix}
}

// Equal reports whether both buffers have the same size and samples.
func (p *PixelBuffer) Equal(o *PixelBuffer) bool {
	if p.width != o.width || p.height != o.height {
		return false
	}
	for i := range p.pix {
		if p.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ToRGBA returns an opaque *image.RGBA copy of the buffer.
func (p *PixelBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(p.Bounds())
	for i, j := 0, 0; i < len(p.pix); i, j = i+3, j+4 {
		img.Pix[j] = p.pix[i]
		img.Pix[j+1] = p.pix[i+1]
		img.Pix[j+2] = p.pix[i+2]
		img.Pix[j+3] = 255
	}
	return img
}

// ColorModel implements image.Image.
func (p *PixelBuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (p *PixelBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, p.width, p.height) }

// At implements image.Image.
func (p *PixelBuffer) At(x, y int) color.Color { return p.Get(x, y).RGBA() }

func (p *PixelBuffer) in(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}
