package pixelate

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// Store persists a full snapshot of the result buffer under a target name.
type Store interface {
	Save(ctx context.Context, img image.Image, target string) error
}

// Progress describes one completed flush.
type Progress struct {
	JobID  string    `json:"job_id"`
	Flush  int64     `json:"flush"`
	Target string    `json:"target"`
	At     time.Time `json:"at"`
}

// Display is asked to refresh after every persisted snapshot. Refresh is best
// effort: it has no return value and its failures never reach the render.
type Display interface {
	Refresh(p Progress)
}

// DisplayFunc adapts a function to the Display interface.
type DisplayFunc func(Progress)

// Refresh calls f(p).
func (f DisplayFunc) Refresh(p Progress) { f(p) }

type nopDisplay struct{}

func (nopDisplay) Refresh(Progress) {}

// OutputSync owns the result buffer and serializes its persistence.
//
// Pixel writes go through Paint and hold the shared side of an RWMutex, so
// workers painting disjoint blocks never wait on each other. Flush holds the
// exclusive side while the buffer is encoded and the display is signaled, so a
// snapshot never contains a half-painted block and two flushes never
// interleave. sync.RWMutex blocks new readers once a writer is waiting, so
// neither side starves.
type OutputSync struct {
	mu      sync.RWMutex
	result  *PixelBuffer
	store   Store
	display Display
	jobID   string
	target  string
	flushes atomic.Int64
}

// NewOutputSync returns an OutputSync that writes result to store under
// job.Target. A nil display is replaced with one that does nothing.
func NewOutputSync(job RenderJob, result *PixelBuffer, store Store, display Display) *OutputSync {
	if display == nil {
		display = nopDisplay{}
	}
	return &OutputSync{
		result:  result,
		store:   store,
		display: display,
		jobID:   job.ID,
		target:  job.Target,
	}
}

// Paint writes c at every point. Callers on different goroutines must paint
// disjoint points.
func (o *OutputSync) Paint(points []image.Point, c Color) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, pt := range points {
		o.result.Set(pt.X, pt.Y, c)
	}
}

// Flush persists the whole result buffer and then signals the display. Only one
// caller runs at a time; others block until the section is free. A store error
// is wrapped in ErrStorageFailure and the display is not signaled. There are no
// retries.
func (o *OutputSync) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.store.Save(ctx, o.result, o.target); err != nil {
		return fmt.Errorf("save %s: %w: %w", o.target, ErrStorageFailure, err)
	}

	n := o.flushes.Add(1)
	o.display.Refresh(Progress{JobID: o.jobID, Flush: n, Target: o.target, At: time.Now()})
	return nil
}

// Flushes returns the number of successful flushes so far.
func (o *OutputSync) Flushes() int64 {
	return o.flushes.Load()
}

// Result returns the buffer being rendered into. Reading it while a render is
// running races with Paint.
func (o *OutputSync) Result() *PixelBuffer {
	return o.result
}
