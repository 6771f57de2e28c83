package pixelate

import (
	"context"
	"fmt"
	"image"
	"time"
)

// Stats summarizes the work done by a render or by one partition of it.
type Stats struct {
	Blocks  int           `json:"blocks"`
	Pixels  int           `json:"pixels"`
	Elapsed time.Duration `json:"elapsed"`
}

func (s *Stats) add(o Stats) {
	s.Blocks += o.Blocks
	s.Pixels += o.Pixels
}

// SequentialRenderer walks the blocks of a column range in row-major order,
// averaging each from the source and flushing the result after every block.
type SequentialRenderer struct {
	job    RenderJob
	source *PixelBuffer
	out    *OutputSync
}

// NewSequentialRenderer returns a renderer that reads source and writes through out.
func NewSequentialRenderer(job RenderJob, source *PixelBuffer, out *OutputSync) *SequentialRenderer {
	return &SequentialRenderer{job: job, source: source, out: out}
}

// Render processes the whole image.
func (r *SequentialRenderer) Render(ctx context.Context) (Stats, error) {
	return r.RenderRange(ctx, Partition{XStart: 0, XEnd: r.source.Width()})
}

// RenderRange processes the blocks of columns [p.XStart, p.XEnd).
//
// Block rows are visited top to bottom and, within a row, block columns left to
// right, starting at the block column containing p.XStart. Every block extent
// is clipped to the range and to the image, so blocks at the right or bottom
// edge, or at a range edge, are smaller than size x size. Each block is
// averaged, painted, and flushed before the next one starts.
//
// When a flush fails the error is returned and no further blocks are processed.
// Blocks already painted stay painted. The context is checked between blocks;
// the renderer never cancels itself.
func (r *SequentialRenderer) RenderRange(ctx context.Context, p Partition) (Stats, error) {
	var st Stats
	size := r.job.SquareSize
	if size <= 0 {
		return st, fmt.Errorf("square size %d: %w", size, ErrInvalidArgument)
	}

	clip := image.Rect(p.XStart, 0, p.XEnd, r.source.Height()).Intersect(r.source.Bounds())
	if clip.Empty() {
		return st, nil
	}

	start := time.Now()
	log := Logger().With("job", r.job.ID, "x_start", clip.Min.X, "x_end", clip.Max.X)

	firstCol := clip.Min.X / size
	lastCol := (clip.Max.X - 1) / size
	rows := (clip.Max.Y + size - 1) / size

	for row := 0; row < rows; row++ {
		for col := firstCol; col <= lastCol; col++ {
			if err := ctx.Err(); err != nil {
				st.Elapsed = time.Since(start)
				return st, err
			}

			extent := BlockExtent(col, row, size, clip)
			avg, points, err := AverageBlock(r.source, extent)
			if err != nil {
				st.Elapsed = time.Since(start)
				return st, err
			}

			r.out.Paint(points, avg)
			if err := r.out.Flush(ctx); err != nil {
				st.Elapsed = time.Since(start)
				return st, fmt.Errorf("block (%d,%d): %w", col, row, err)
			}

			st.Blocks++
			st.Pixels += len(points)
			log.Debug("block rendered", "col", col, "row", row, "pixels", len(points))
		}
	}

	st.Elapsed = time.Since(start)
	return st, nil
}
