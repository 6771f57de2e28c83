package pixelate

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// ConcurrentRenderer renders block-aligned column ranges in parallel, one
// goroutine per non-empty range.
type ConcurrentRenderer struct {
	job         RenderJob
	source      *PixelBuffer
	out         *OutputSync
	parallelism func() int
}

// NewConcurrentRenderer returns a renderer that uses job.Workers partitions, or
// one per CPU when job.Workers is zero.
func NewConcurrentRenderer(job RenderJob, source *PixelBuffer, out *OutputSync) *ConcurrentRenderer {
	return &ConcurrentRenderer{
		job:         job,
		source:      source,
		out:         out,
		parallelism: runtime.NumCPU,
	}
}

// WithParallelism replaces the available-parallelism query consulted when the
// job does not name a worker count.
func (c *ConcurrentRenderer) WithParallelism(fn func() int) *ConcurrentRenderer {
	c.parallelism = fn
	return c
}

// Workers returns the partition count this renderer will use.
func (c *ConcurrentRenderer) Workers() int {
	if c.job.Workers > 0 {
		return c.job.Workers
	}
	if n := c.parallelism(); n > 0 {
		return n
	}
	return 1
}

type partitionResult struct {
	stats Stats
	err   error
}

// Render splits the image into partitions, renders each non-empty one on its
// own goroutine, and returns once all of them have finished.
//
// Workers share nothing but the OutputSync. A failing worker does not stop
// its siblings; after the join the first failure by partition index is
// reported as a *PartitionError and the other ranges are fully rendered.
func (c *ConcurrentRenderer) Render(ctx context.Context) (Stats, error) {
	start := time.Now()
	parts, err := Partitions(c.source.Width(), c.job.SquareSize, c.Workers())
	if err != nil {
		return Stats{}, err
	}

	log := Logger().With("job", c.job.ID)
	log.Info("partitioned render", "partitions", len(parts), "square_size", c.job.SquareSize)

	results := make([]partitionResult, len(parts))
	var wg sync.WaitGroup
	for i, p := range parts {
		if p.Empty() {
			continue
		}
		wg.Add(1)
		go func(i int, p Partition) {
			defer wg.Done()
			r := NewSequentialRenderer(c.job, c.source, c.out)
			st, err := r.RenderRange(ctx, p)
			results[i] = partitionResult{stats: st, err: err}
		}(i, p)
	}
	wg.Wait()

	var total Stats
	first, failed, completed := -1, 0, 0
	for i, res := range results {
		if parts[i].Empty() {
			continue
		}
		total.add(res.stats)
		if res.err == nil {
			completed++
			continue
		}
		log.Warn("partition failed", "partition", i, "x_start", parts[i].XStart, "x_end", parts[i].XEnd, "error", res.err)
		failed++
		if first < 0 {
			first = i
		}
	}
	total.Elapsed = time.Since(start)

	if first >= 0 {
		return total, &PartitionError{
			Partition: first,
			Range:     parts[first],
			Failed:    failed,
			Completed: completed,
			Err:       results[first].err,
		}
	}
	return total, nil
}
