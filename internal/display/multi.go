package display

import "github.com/ironsheep/pixelate/internal/pixelate"

// Multi forwards every refresh to each display in order. Nil entries are
// skipped.
type Multi []pixelate.Display

// Refresh implements pixelate.Display.
func (m Multi) Refresh(p pixelate.Progress) {
	for _, d := range m {
		if d != nil {
			d.Refresh(p)
		}
	}
}

// Nop ignores every refresh.
type Nop struct{}

// Refresh implements pixelate.Display.
func (Nop) Refresh(pixelate.Progress) {}
