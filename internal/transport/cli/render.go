package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/sandevgo/shopdesk/pkg/conv"
)

// renderer turns markdown replies into terminal output.
type renderer func(md string) string

// newRenderer styles markdown with glamour when stdout is a terminal and falls
// back to plain text for pipes and redirects.
func newRenderer() renderer {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return plainRenderer
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return plainRenderer
	}

	return func(md string) string {
		out, err := tr.Render(md)
		if err != nil {
			return md
		}
		return strings.TrimRight(out, "\n")
	}
}

func plainRenderer(md string) string {
	text, err := conv.MarkdownToPlainText(md)
	if err != nil {
		return md
	}
	return text
}
