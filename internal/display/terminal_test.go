package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ironsheep/pixelate/internal/pixelate"
)

func newTestTerminal(total int, interval time.Duration) (*Terminal, *bytes.Buffer, *time.Time) {
	var buf bytes.Buffer
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	term := &Terminal{Output: &buf, Total: total, Interval: interval}
	term.now = func() time.Time { return now }
	return term, &buf, &now
}

func TestTerminal_Refresh(t *testing.T) {
	term, buf, _ := newTestTerminal(10, 0)

	term.Refresh(pixelate.Progress{Flush: 3, Target: "out.jpg"})

	output := buf.String()
	assert.Contains(t, output, "Rendering")
	assert.Contains(t, output, "3/10 blocks")
	assert.Contains(t, output, "30.0%")
	assert.Contains(t, output, "out.jpg")
	assert.True(t, strings.HasPrefix(output, "\r"), "progress line should be rewritten in place")
}

func TestTerminal_Throttle(t *testing.T) {
	term, buf, now := newTestTerminal(10, time.Second)

	term.Refresh(pixelate.Progress{Flush: 1})
	term.Refresh(pixelate.Progress{Flush: 2})
	assert.NotContains(t, buf.String(), "2/10", "second refresh within the interval should be skipped")

	*now = now.Add(2 * time.Second)
	term.Refresh(pixelate.Progress{Flush: 3})
	assert.Contains(t, buf.String(), "3/10")

	// The final flush is drawn even inside the interval
	term.Refresh(pixelate.Progress{Flush: 10})
	assert.Contains(t, buf.String(), "10/10")
}

func TestTerminal_UnknownTotal(t *testing.T) {
	term, buf, _ := newTestTerminal(0, 0)

	term.Refresh(pixelate.Progress{Flush: 7, Target: "x.png"})
	assert.Contains(t, buf.String(), "7 blocks")
	assert.NotContains(t, buf.String(), "%")
}

func TestTerminal_Finish(t *testing.T) {
	term, buf, _ := newTestTerminal(4, 0)

	term.Finish()
	assert.Empty(t, buf.String(), "nothing drawn, nothing to finish")

	term.Refresh(pixelate.Progress{Flush: 4})
	term.Finish()
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestTerminal_FinishDrawsThrottledCount(t *testing.T) {
	term, buf, _ := newTestTerminal(0, time.Hour)

	term.Refresh(pixelate.Progress{Flush: 1})
	term.Refresh(pixelate.Progress{Flush: 5})
	assert.NotContains(t, buf.String(), "5 blocks")

	term.Finish()
	assert.Contains(t, buf.String(), "5 blocks")
}

func TestMulti(t *testing.T) {
	var got []int64
	record := pixelate.DisplayFunc(func(p pixelate.Progress) { got = append(got, p.Flush) })

	m := Multi{record, nil, Nop{}, record}
	m.Refresh(pixelate.Progress{Flush: 5})

	assert.Equal(t, []int64{5, 5}, got)
}
