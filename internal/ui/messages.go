package ui

import (
	"fmt"
	"io"
	"strings"
)

// OK prints a success line.
func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

// Fail prints an error line, flattened to a single line.
func Fail(w io.Writer, msg string) {
	t := Current()
	msg = strings.Join(strings.Fields(msg), " ")
	if msg == "" {
		msg = "error"
	}
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// ProgressBar renders a bar with a done/total counter.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}
