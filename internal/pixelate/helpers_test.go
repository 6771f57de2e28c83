package pixelate

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
)

// memStore records saves and can fail a chosen save.
type memStore struct {
	mu        sync.Mutex
	saves     int
	failAt    int
	record    bool
	snapshots []*PixelBuffer
	targets   []string
}

var errDiskFull = errors.New("disk full")

func (m *memStore) Save(_ context.Context, img image.Image, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failAt > 0 && m.saves == m.failAt {
		return errDiskFull
	}
	m.targets = append(m.targets, target)
	if m.record {
		m.snapshots = append(m.snapshots, img.(*PixelBuffer).Clone())
	}
	return nil
}

// newPatternBuffer fills a buffer with a deterministic, non-uniform pattern.
// Blue never exceeds 200 so a result pre-filled with blue 255 shows exactly
// which pixels were painted.
func newPatternBuffer(t *testing.T, width, height int) *PixelBuffer {
	t.Helper()
	buf, err := NewPixelBuffer(width, height)
	if err != nil {
		t.Fatalf("NewPixelBuffer failed: %v", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Set(x, y, Color{
				R: uint8((x*37 + y*11) % 256),
				G: uint8((x*x + y*5) % 256),
				B: uint8((x*3 + y*y*7) % 201),
			})
		}
	}
	return buf
}

func newSentinelBuffer(t *testing.T, width, height int) *PixelBuffer {
	t.Helper()
	buf, err := NewPixelBuffer(width, height)
	if err != nil {
		t.Fatalf("NewPixelBuffer failed: %v", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Set(x, y, Color{B: 255})
		}
	}
	return buf
}

// renderWith runs a full render of source and returns the result buffer.
func renderWith(t *testing.T, source *PixelBuffer, size int, mode Mode, workers int) (*PixelBuffer, Stats) {
	t.Helper()
	job := NewRenderJob(size, mode, "out.png")
	job.Workers = workers
	result := source.Clone()
	out := NewOutputSync(job, result, &memStore{}, nil)
	st, err := Run(context.Background(), job, source, out)
	if err != nil {
		t.Fatalf("Run(%s, size=%d, workers=%d) failed: %v", mode, size, workers, err)
	}
	return result, st
}

// referenceRender pixelates source directly, without renderers or output sync.
func referenceRender(source *PixelBuffer, size int) *PixelBuffer {
	out := source.Clone()
	for by := 0; by < source.Height(); by += size {
		for bx := 0; bx < source.Width(); bx += size {
			var sr, sg, sb, n int
			for y := by; y < by+size && y < source.Height(); y++ {
				for x := bx; x < bx+size && x < source.Width(); x++ {
					c := source.Get(x, y)
					sr += int(c.R)
					sg += int(c.G)
					sb += int(c.B)
					n++
				}
			}
			avg := Color{R: uint8(sr / n), G: uint8(sg / n), B: uint8(sb / n)}
			for y := by; y < by+size && y < source.Height(); y++ {
				for x := bx; x < bx+size && x < source.Width(); x++ {
					out.Set(x, y, avg)
				}
			}
		}
	}
	return out
}
