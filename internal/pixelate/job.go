package pixelate

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Mode selects the execution strategy of a render.
type Mode string

const (
	// ModeSequential renders every block in one row-major pass.
	ModeSequential Mode = "sequential"

	// ModePartitioned renders block-aligned column ranges concurrently.
	ModePartitioned Mode = "partitioned"
)

// ParseMode accepts "S"/"sequential" and "M"/"P"/"partitioned"/"multi",
// case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "sequential", "single":
		return ModeSequential, nil
	case "m", "p", "partitioned", "multi":
		return ModePartitioned, nil
	default:
		return "", fmt.Errorf("unknown mode %q: %w", s, ErrInvalidArgument)
	}
}

// RenderJob holds the immutable parameters of one render.
type RenderJob struct {
	// ID identifies the render in logs and refresh notifications.
	ID string `json:"id"`

	// SquareSize is the side of a block in pixels.
	SquareSize int `json:"square_size"`

	// Mode selects sequential or partitioned execution.
	Mode Mode `json:"mode"`

	// Workers is the partition count in partitioned mode. Zero means one per
	// available CPU.
	Workers int `json:"workers,omitempty"`

	// Target identifies where snapshots are persisted, usually a file path.
	Target string `json:"target"`
}

// NewRenderJob returns a job with a fresh ID.
func NewRenderJob(squareSize int, mode Mode, target string) RenderJob {
	return RenderJob{
		ID:         uuid.NewString(),
		SquareSize: squareSize,
		Mode:       mode,
		Target:     target,
	}
}

// Validate checks the job parameters.
func (j RenderJob) Validate() error {
	if j.SquareSize <= 0 {
		return fmt.Errorf("square size %d: %w", j.SquareSize, ErrInvalidArgument)
	}
	switch j.Mode {
	case ModeSequential, ModePartitioned:
	default:
		return fmt.Errorf("mode %q: %w", j.Mode, ErrInvalidArgument)
	}
	if j.Workers < 0 {
		return fmt.Errorf("worker count %d: %w", j.Workers, ErrInvalidArgument)
	}
	return nil
}

// TotalBlocks returns the number of blocks covering a width x height image.
func TotalBlocks(width, height, size int) int {
	if width <= 0 || height <= 0 || size <= 0 {
		return 0
	}
	return ((width + size - 1) / size) * ((height + size - 1) / size)
}

// Run renders source into out's result buffer using the strategy named by job.
func Run(ctx context.Context, job RenderJob, source *PixelBuffer, out *OutputSync) (Stats, error) {
	if err := job.Validate(); err != nil {
		return Stats{}, err
	}
	log := Logger().With("job", job.ID)
	log.Info("render started", "mode", job.Mode, "square_size", job.SquareSize,
		"width", source.Width(), "height", source.Height(), "target", job.Target)

	var (
		st  Stats
		err error
	)
	switch job.Mode {
	case ModePartitioned:
		st, err = NewConcurrentRenderer(job, source, out).Render(ctx)
	default:
		st, err = NewSequentialRenderer(job, source, out).Render(ctx)
	}
	if err != nil {
		log.Error("render failed", "blocks", st.Blocks, "error", err)
		return st, err
	}
	log.Info("render finished", "blocks", st.Blocks, "pixels", st.Pixels, "elapsed", st.Elapsed)
	return st, nil
}
