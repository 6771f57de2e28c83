package imaging

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/bmp"

	"github.com/ironsheep/pixelate/internal/pixelate"
)

// DefaultJPEGQuality is used when a FileStore has no explicit quality.
const DefaultJPEGQuality = 90

// FileStore persists snapshots as encoded image files.
//
// The encoder is chosen from the target's extension: .jpg/.jpeg, .png or .bmp.
// Each snapshot is written to a hidden temporary file next to the target and
// then renamed over it, so a viewer polling the target never reads a partially
// written file.
type FileStore struct {
	// Quality is the JPEG quality (1-100). Zero means DefaultJPEGQuality.
	Quality int
}

// EncoderFor returns the encoder matching the extension of target.
func (s *FileStore) EncoderFor(target string) (imgio.Encoder, error) {
	switch FormatFromPath(target) {
	case "jpeg":
		q := s.Quality
		if q <= 0 {
			q = DefaultJPEGQuality
		}
		return imgio.JPEGEncoder(q), nil
	case "png":
		return imgio.PNGEncoder(), nil
	case "bmp":
		return imgio.Encoder(bmp.Encode), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want .jpg, .png or .bmp)", filepath.Ext(target))
	}
}

// Save implements pixelate.Store.
func (s *FileStore) Save(ctx context.Context, img image.Image, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc, err := s.EncoderFor(target)
	if err != nil {
		return err
	}

	if buf, ok := img.(*pixelate.PixelBuffer); ok {
		img = buf.ToRGBA()
	}

	tmp := filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+".tmp")
	if err := imgio.Save(tmp, img, enc); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}

// MemoryStore keeps the latest snapshot in memory.
//
// It backs renders whose result is returned to a caller rather than written
// to disk, and lets tests inject a failure on a chosen save.
type MemoryStore struct {
	mu     sync.Mutex
	last   *image.RGBA
	saves  int
	failAt int
	err    error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FailOn makes the n-th save (1-based) return err.
func (m *MemoryStore) FailOn(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
	m.err = err
}

// Save implements pixelate.Store.
func (m *MemoryStore) Save(ctx context.Context, img image.Image, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.failAt > 0 && m.saves == m.failAt {
		return m.err
	}

	if buf, ok := img.(*pixelate.PixelBuffer); ok {
		m.last = buf.ToRGBA()
		return nil
	}
	m.last = clone.AsRGBA(img)
	return nil
}

// Saves returns the number of Save calls so far, failed ones included.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Last returns the most recent successful snapshot, or nil.
func (m *MemoryStore) Last() *image.RGBA {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
