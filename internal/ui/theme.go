package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette, symbols and borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymOK, SymFail           string
	Border                   lipgloss.Border
}

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

var current = classic()

// SetTheme switches the active theme. An empty name selects classic.
func SetTheme(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		current = classic()
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		return fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(Themes, ", "))
	}
	return nil
}

// Current returns the active theme.
func Current() Theme { return current }

func classic() Theme {
	s := lipgloss.NewStyle
	return Theme{
		Name:         "classic",
		Title:        s().Bold(true),
		Muted:        s().Faint(true),
		Accent:       s().Foreground(lipgloss.Color("12")),
		Success:      s().Foreground(lipgloss.Color("42")),
		Error:        s().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:      s().Foreground(lipgloss.Color("214")),
		Selected:     s().Bold(true).Reverse(true),
		Done:         s().Faint(true).Strikethrough(true),
		Help:         s().Faint(true),
		BoxUnchecked: "☐",
		BoxChecked:   "☑",
		SymOK:        "✔",
		SymFail:      "✖",
		Border:       lipgloss.NormalBorder(),
	}
}

func neon() Theme {
	t := classic()
	s := lipgloss.NewStyle
	t.Name = "neon"
	t.Title = s().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = s().Foreground(lipgloss.Color("14"))
	t.Pending = s().Foreground(lipgloss.Color("11"))
	t.BoxUnchecked, t.BoxChecked = "◻", "◼"
	t.Border = lipgloss.RoundedBorder()
	return t
}

// mono carries no color at all so output stays plain in pipes and logs.
func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:         "mono",
		Title:        plain,
		Muted:        plain,
		Accent:       plain,
		Success:      plain,
		Error:        plain,
		Pending:      plain,
		Selected:     plain.Reverse(true),
		Done:         plain,
		Help:         plain,
		BoxUnchecked: "[ ]",
		BoxChecked:   "[x]",
		SymOK:        "x",
		SymFail:      "!",
		Border:       lipgloss.ASCIIBorder(),
	}
}
