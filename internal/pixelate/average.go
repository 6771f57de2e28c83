package pixelate

import (
	"fmt"
	"image"
)

// BlockExtent returns the pixel extent of the block at block-grid coordinate
// (col, row), clipped to clip. Edge blocks come back smaller than size x size;
// a block lying wholly outside clip comes back empty.
func BlockExtent(col, row, size int, clip image.Rectangle) image.Rectangle {
	r := image.Rect(col*size, row*size, (col+1)*size, (row+1)*size)
	return r.Intersect(clip)
}

// AverageBlock computes the average color of src over extent.
//
// The extent is first clipped to the buffer. Each channel is summed
// independently over every remaining pixel and divided by the pixel count with
// integer truncation, so a channel is always the floor of its true mean.
//
// Returns:
//   - Color: the per-channel average.
//   - []image.Point: every coordinate that was summed, in row-major order. The
//     caller recolors exactly these pixels.
//   - error: wraps ErrInvalidArgument when the clipped extent holds no pixels.
//
// AverageBlock only reads src and is safe to call from any goroutine.
func AverageBlock(src *PixelBuffer, extent image.Rectangle) (Color, []image.Point, error) {
	r := extent.Intersect(src.Bounds())
	if r.Empty() {
		return Color{}, nil, fmt.Errorf("average over empty region %v: %w", extent, ErrInvalidArgument)
	}

	var sumR, sumG, sumB uint64
	points := make([]image.Point, 0, r.Dx()*r.Dy())

	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := (y*src.width + r.Min.X) * 3
		for x := r.Min.X; x < r.Max.X; x++ {
			sumR += uint64(src.pix[i])
			sumG += uint64(src.pix[i+1])
			sumB += uint64(src.pix[i+2])
			points = append(points, image.Point{X: x, Y: y})
			i += 3
		}
	}

	n := uint64(len(points))
	return Color{
		R: uint8(sumR / n),
		G: uint8(sumG / n),
		B: uint8(sumB / n),
	}, points, nil
}
