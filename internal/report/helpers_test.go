package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

func plainRenderer() *lipgloss.Renderer {
	return lipgloss.NewRenderer(io.Discard)
}
