package pixelate

import "fmt"

// Partition is a half-open column range [XStart, XEnd) rendered by one worker.
type Partition struct {
	XStart int `json:"x_start"`
	XEnd   int `json:"x_end"`
}

// Width returns the number of columns in the range.
func (p Partition) Width() int { return p.XEnd - p.XStart }

// Empty reports whether the range holds no columns.
func (p Partition) Empty() bool { return p.XEnd <= p.XStart }

// Partitions splits [0, width) into workers column ranges aligned to block
// boundaries.
//
// Range i starts at (width/workers)*i rounded down to a multiple of size, so
// no block is ever split between two workers. Each range ends where the next
// one starts and the last one ends at width. When width is small relative to
// workers, rounding can collapse ranges to zero width; those workers receive an
// empty range and do nothing.
//
// The returned ranges are pairwise disjoint, non-decreasing, and their union is
// exactly [0, width).
func Partitions(width, size, workers int) ([]Partition, error) {
	if width <= 0 {
		return nil, fmt.Errorf("width %d: %w", width, ErrInvalidArgument)
	}
	if size <= 0 {
		return nil, fmt.Errorf("square size %d: %w", size, ErrInvalidArgument)
	}
	if workers < 1 {
		return nil, fmt.Errorf("worker count %d: %w", workers, ErrInvalidArgument)
	}

	stride := width / workers
	starts := make([]int, workers+1)
	for i := 1; i < workers; i++ {
		starts[i] = (stride * i / size) * size
	}
	starts[workers] = width

	parts := make([]Partition, workers)
	for i := range parts {
		parts[i] = Partition{XStart: starts[i], XEnd: starts[i+1]}
	}
	return parts, nil
}
