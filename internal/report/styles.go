// Package report renders adjustment summaries, market analyses and order
// lists for the terminal.
package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#6B7280")
	colorDanger  = lipgloss.Color("#E53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// Styles holds the styles used by a Printer.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Warn   lipgloss.Style
	Info   lipgloss.Style
	Box    lipgloss.Style
}

// NewStyles builds styles bound to r, so color output follows the
// capabilities of r's writer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:  r.NewStyle().Bold(true).Foreground(colorAccent),
		Header: r.NewStyle().Bold(true).Padding(0, 1),
		Cell:   r.NewStyle().Padding(0, 1),
		Muted:  r.NewStyle().Foreground(colorMuted),
		Good:   r.NewStyle().Foreground(colorAccent),
		Bad:    r.NewStyle().Foreground(colorDanger),
		Warn:   r.NewStyle().Foreground(colorWarning),
		Info:   r.NewStyle().Foreground(colorInfo),
		Box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),
	}
}

// Printer writes reports to a writer.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		styles: NewStyles(lipgloss.NewRenderer(w)),
	}
}
