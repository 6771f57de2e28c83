package imaging

import (
	"fmt"
	"image"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixelate/internal/pixelate"
)

// RGBColor represents an RGB color with 8-bit components (0-255).
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in several representations.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// DescribeColor reports c as hex, RGB and HSL.
//
// HSL values are truncated to integers: hue in degrees, saturation and
// lightness in percent. Achromatic colors report hue 0.
func DescribeColor(c pixelate.Color) ColorResult {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l := cf.Hsl()
	if s == 0 {
		h = 0
	}

	return ColorResult{
		Hex: strings.ToUpper(cf.Hex()),
		RGB: RGBColor{R: c.R, G: c.G, B: c.B},
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// SampleColor extracts the color at a pixel coordinate.
//
// Coordinates are 0-based with origin at the image's top-left corner. Alpha
// is ignored; 16-bit samples are reduced to 8 bits by dropping the low byte.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b, _ := img.At(x, y).RGBA()
	res := DescribeColor(pixelate.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
	return &res, nil
}

// BlockAverageResult describes one block's average color.
type BlockAverageResult struct {
	X1     int         `json:"x1"`
	Y1     int         `json:"y1"`
	X2     int         `json:"x2"`
	Y2     int         `json:"y2"`
	Pixels int         `json:"pixels"`
	Color  ColorResult `json:"color"`
}

// BlockAverage averages the block at block-grid coordinate (col, row) of img.
// Blocks at the right or bottom edge are clipped to the image.
func BlockAverage(img image.Image, col, row, squareSize int) (*BlockAverageResult, error) {
	if squareSize <= 0 {
		return nil, fmt.Errorf("square size %d: %w", squareSize, pixelate.ErrInvalidArgument)
	}
	buf, err := pixelate.FromImage(img)
	if err != nil {
		return nil, err
	}

	extent := pixelate.BlockExtent(col, row, squareSize, buf.Bounds())
	avg, points, err := pixelate.AverageBlock(buf, extent)
	if err != nil {
		return nil, fmt.Errorf("block (%d,%d): %w", col, row, err)
	}

	return &BlockAverageResult{
		X1:     extent.Min.X,
		Y1:     extent.Min.Y,
		X2:     extent.Max.X,
		Y2:     extent.Max.Y,
		Pixels: len(points),
		Color:  DescribeColor(avg),
	}, nil
}
