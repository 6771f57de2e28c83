package printer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// Users can disable colors with the NO_COLOR environment variable
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Output is where Success, Info and Warning print. Errors always go to stderr.
var Output io.Writer = os.Stdout

// Success prints a message in green with a checkmark suffix, matching the
// "Square Size: 8 ✓" style of parameter checks.
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.Contains(msg, "✓") {
		msg = strings.TrimRight(msg, "\n") + " ✓\n"
	}
	green.Fprint(Output, msg)
}

// Info prints an informational message in the default color.
func Info(format string, a ...any) {
	fmt.Fprintf(Output, format, a...)
}

// Warning prints a warning message in yellow.
func Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		yellow.Fprintf(Output, "⚠️  %s", msg)
	} else {
		yellow.Fprint(Output, msg)
	}
}

// Error prints a formatted error with title, explanation and suggestions to
// stderr, and returns a plain error carrying the title for Cobra.
func Error(title string, explanation string, suggestions []string) error {
	red.Fprintf(os.Stderr, "✗ %s\n\n", title)
	fmt.Fprintf(os.Stderr, "%s\n", explanation)

	if len(suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
		cyan.Fprintf(os.Stderr, "Next steps:\n")
		for i, s := range suggestions {
			fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, s)
		}
	}

	return fmt.Errorf("%s", title)
}

// ErrorWithContext is Error with one extra "key: value" context line per
// entry of details, printed before the suggestions.
func ErrorWithContext(title string, explanation string, details map[string]string, suggestions []string) error {
	var b strings.Builder
	b.WriteString(explanation)
	if len(details) > 0 {
		b.WriteString("\n")
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", k, details[k])
		}
	}
	return Error(title, b.String(), suggestions)
}
