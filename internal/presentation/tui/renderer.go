package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Without options it detects a light or dark terminal background.
func NewRenderer(opts ...glamour.TermRendererOption) func(string) (string, error) {
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{
			glamour.WithAutoStyle(), // Automatically detect light/dark background
			glamour.WithWordWrap(100),
		}
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		// Plain markdown is still readable.
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
