package pixelate

import (
	"context"
	"errors"
	"image"
	"testing"
)

// quadrantBuffer returns a 4x4 buffer with four solid 2x2 quadrants.
func quadrantBuffer(t *testing.T) *PixelBuffer {
	t.Helper()
	buf, _ := NewPixelBuffer(4, 4)
	colors := [2][2]Color{
		{{R: 255}, {G: 255}},
		{{B: 255}, {R: 255, G: 255, B: 255}},
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			buf.Set(x, y, colors[y/2][x/2])
		}
	}
	return buf
}

func TestSequential_QuadrantsUnchanged(t *testing.T) {
	source := quadrantBuffer(t)
	result, st := renderWith(t, source, 2, ModeSequential, 0)

	if !result.Equal(source) {
		t.Error("2x2 blocks over 2x2 quadrants should leave the image unchanged")
	}
	if st.Blocks != 4 || st.Pixels != 16 {
		t.Errorf("stats: got %+v, want 4 blocks / 16 pixels", st)
	}
}

func TestSequential_SingleBlockFlat(t *testing.T) {
	source := quadrantBuffer(t)
	result, st := renderWith(t, source, 4, ModeSequential, 0)

	// (255+0+0+255)*4/16 per channel = 127.5 -> 127
	want := Color{R: 127, G: 127, B: 127}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := result.Get(x, y); got != want {
				t.Fatalf("pixel (%d,%d): got %+v, want %+v", x, y, got, want)
			}
		}
	}
	if st.Blocks != 1 {
		t.Errorf("blocks: got %d, want 1", st.Blocks)
	}
}

func TestSequential_MatchesReference(t *testing.T) {
	sizes := []struct{ w, h int }{{10, 10}, {17, 9}, {1, 1}, {3, 40}, {64, 48}}
	for _, sz := range sizes {
		source := newPatternBuffer(t, sz.w, sz.h)
		for _, size := range []int{1, 2, 3, 4, 5, 8, 50} {
			result, st := renderWith(t, source, size, ModeSequential, 0)
			if !result.Equal(referenceRender(source, size)) {
				t.Errorf("%dx%d size %d: result differs from reference", sz.w, sz.h, size)
			}
			if want := TotalBlocks(sz.w, sz.h, size); st.Blocks != want {
				t.Errorf("%dx%d size %d: %d blocks, want %d", sz.w, sz.h, size, st.Blocks, want)
			}
		}
	}
}

func TestSequential_EveryPixelInExactlyOneBlock(t *testing.T) {
	const width, height, size = 11, 7, 3
	source := newPatternBuffer(t, width, height)
	result := newSentinelBuffer(t, width, height)

	store := &memStore{record: true}
	job := NewRenderJob(size, ModeSequential, "out.png")
	out := NewOutputSync(job, result, store, nil)

	st, err := NewSequentialRenderer(job, source, out).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Each snapshot must add exactly one clipped, block-aligned rectangle of
	// newly painted pixels, and no pixel may be painted by two blocks.
	owner := make(map[image.Point]int)
	prev := newSentinelBuffer(t, width, height)
	for i, snap := range store.snapshots {
		var painted []image.Point
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if prev.Get(x, y).B == 255 && snap.Get(x, y).B != 255 {
					painted = append(painted, image.Point{x, y})
				}
			}
		}
		if len(painted) == 0 {
			t.Fatalf("flush %d painted nothing", i)
		}
		col, row := painted[0].X/size, painted[0].Y/size
		extent := BlockExtent(col, row, size, source.Bounds())
		if len(painted) != extent.Dx()*extent.Dy() {
			t.Errorf("flush %d: painted %d pixels, block %v holds %d", i, len(painted), extent, extent.Dx()*extent.Dy())
		}
		for _, pt := range painted {
			if !pt.In(extent) {
				t.Errorf("flush %d: pixel %v outside block %v", i, pt, extent)
			}
			if prevOwner, ok := owner[pt]; ok {
				t.Errorf("pixel %v painted by flush %d and %d", pt, prevOwner, i)
			}
			owner[pt] = i
		}
		prev = snap
	}

	if len(owner) != width*height {
		t.Errorf("painted %d pixels, want %d", len(owner), width*height)
	}
	if st.Pixels != width*height {
		t.Errorf("stats pixels: got %d, want %d", st.Pixels, width*height)
	}
}

func TestSequential_RowMajorOrder(t *testing.T) {
	const width, height, size = 6, 6, 2
	source := newPatternBuffer(t, width, height)
	result := newSentinelBuffer(t, width, height)
	store := &memStore{record: true}
	job := NewRenderJob(size, ModeSequential, "out.png")

	if _, err := NewSequentialRenderer(job, source, NewOutputSync(job, result, store, nil)).Render(context.Background()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Flush k paints block k in row-major order: its top-left pixel is the
	// first one to turn from sentinel.
	for k, snap := range store.snapshots {
		x, y := (k%3)*size, (k/3)*size
		if snap.Get(x, y).B == 255 {
			t.Errorf("flush %d: block at (%d,%d) not painted yet", k, x, y)
		}
		if k > 0 && store.snapshots[k-1].Get(x, y).B != 255 {
			t.Errorf("flush %d: block at (%d,%d) painted too early", k, x, y)
		}
	}
}

func TestSequential_RenderRange(t *testing.T) {
	source := newPatternBuffer(t, 12, 5)
	result := source.Clone()
	job := NewRenderJob(4, ModeSequential, "out.png")
	out := NewOutputSync(job, result, &memStore{}, nil)

	st, err := NewSequentialRenderer(job, source, out).RenderRange(context.Background(), Partition{XStart: 4, XEnd: 8})
	if err != nil {
		t.Fatalf("RenderRange failed: %v", err)
	}
	if st.Blocks != 2 {
		t.Errorf("blocks: got %d, want 2", st.Blocks)
	}

	ref := referenceRender(source, 4)
	for y := 0; y < 5; y++ {
		for x := 0; x < 12; x++ {
			want := source.Get(x, y)
			if x >= 4 && x < 8 {
				want = ref.Get(x, y)
			}
			if got := result.Get(x, y); got != want {
				t.Errorf("pixel (%d,%d): got %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestSequential_EmptyRange(t *testing.T) {
	source := newPatternBuffer(t, 8, 8)
	job := NewRenderJob(4, ModeSequential, "out.png")
	store := &memStore{}
	out := NewOutputSync(job, source.Clone(), store, nil)

	st, err := NewSequentialRenderer(job, source, out).RenderRange(context.Background(), Partition{XStart: 4, XEnd: 4})
	if err != nil {
		t.Fatalf("RenderRange failed: %v", err)
	}
	if st.Blocks != 0 || store.saves != 0 {
		t.Errorf("empty range did work: %+v, %d saves", st, store.saves)
	}
}

func TestSequential_InvalidSquareSize(t *testing.T) {
	source := newPatternBuffer(t, 4, 4)
	job := RenderJob{SquareSize: 0, Mode: ModeSequential}
	out := NewOutputSync(job, source.Clone(), &memStore{}, nil)

	_, err := NewSequentialRenderer(job, source, out).Render(context.Background())
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}

func TestSequential_StorageFailureStops(t *testing.T) {
	source := newPatternBuffer(t, 8, 8)
	result := source.Clone()
	job := NewRenderJob(2, ModeSequential, "out.png")
	store := &memStore{failAt: 3}
	out := NewOutputSync(job, result, store, nil)

	st, err := NewSequentialRenderer(job, source, out).Render(context.Background())
	if !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("got %v, want ErrStorageFailure", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Errorf("underlying store error lost: %v", err)
	}
	if store.saves != 3 {
		t.Errorf("saves: got %d, want 3 (no blocks after the failure)", store.saves)
	}
	if st.Blocks != 2 {
		t.Errorf("completed blocks: got %d, want 2", st.Blocks)
	}

	// The first two blocks stay rendered
	ref := referenceRender(source, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if result.Get(x, y) != ref.Get(x, y) {
				t.Errorf("pixel (%d,%d) not rendered before failure", x, y)
			}
		}
	}
}

func TestSequential_ContextCanceled(t *testing.T) {
	source := newPatternBuffer(t, 8, 8)
	job := NewRenderJob(2, ModeSequential, "out.png")
	out := NewOutputSync(job, source.Clone(), &memStore{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSequentialRenderer(job, source, out).Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
