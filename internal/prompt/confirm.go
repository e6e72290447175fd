// Package prompt implements the yes/no gate placed in front of mutating
// commands.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Declined reports whether a response to a (Y,n) prompt is a "no". Only "n"
// and "no" (any case) decline; everything else, including an empty line,
// counts as yes.
func Declined(response string) bool {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "n", "no":
		return true
	}
	return false
}

// Confirm writes question followed by " (Y,n)" to w, reads a single line from
// r and returns false when the answer declines. Reaching EOF without a
// newline uses whatever was read so far.
func Confirm(r *bufio.Reader, w io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(w, "%s (Y,n)\n", question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}
	return !Declined(line), nil
}
