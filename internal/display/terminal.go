package display

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/ironsheep/pixelate/internal/pixelate"
)

// DefaultInterval is the minimum time between two progress lines.
const DefaultInterval = 100 * time.Millisecond

// Terminal prints a single, rewritten progress line.
type Terminal struct {
	// Output is where the progress line goes (default: os.Stderr).
	Output io.Writer

	// Total is the number of blocks expected. Zero prints the flush count only.
	Total int

	// Interval throttles redraws. The final flush is always drawn.
	Interval time.Duration

	mu         sync.Mutex
	last       time.Time
	seen       int64
	seenTarget string
	shown      int64
	drawn      bool
	now        func() time.Time
}

// NewTerminal returns a Terminal writing to os.Stderr.
func NewTerminal(total int) *Terminal {
	return &Terminal{Output: os.Stderr, Total: total, Interval: DefaultInterval}
}

// Refresh draws the progress line unless one was drawn less than Interval ago.
func (t *Terminal) Refresh(p pixelate.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seen, t.seenTarget = p.Flush, p.Target
	now := t.clock()
	complete := t.Total > 0 && int(p.Flush) >= t.Total
	if t.drawn && !complete && now.Sub(t.last) < t.Interval {
		return
	}
	t.last = now
	t.drawn = true
	t.draw(p.Flush, p.Target)
	t.shown = p.Flush
}

// Finish prints the last known count and ends the progress line.
func (t *Terminal) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.drawn {
		return
	}
	if t.seen != t.shown {
		t.draw(t.seen, t.seenTarget)
	}
	fmt.Fprintln(t.out())
	t.drawn = false
}

func (t *Terminal) draw(flush int64, target string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	if t.Total > 0 {
		pct := float64(flush) * 100 / float64(t.Total)
		fmt.Fprintf(t.out(), "\r%s %d/%d blocks (%5.1f%%) → %s", cyan("Rendering"), flush, t.Total, pct, target)
		return
	}
	fmt.Fprintf(t.out(), "\r%s %d blocks → %s", cyan("Rendering"), flush, target)
}

func (t *Terminal) out() io.Writer {
	if t.Output == nil {
		return os.Stderr
	}
	return t.Output
}

func (t *Terminal) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}
