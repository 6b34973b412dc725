// Package render turns note text into what the preview pane shows.
package render

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/phravins/notepane/internal/debug"
	"github.com/phravins/notepane/internal/notes"
)

const (
	DefaultStyle = "dark"
	defaultWidth = 80
	minWidth     = 10
)

// Renderer renders previews with one glamour style. Term renderers are
// cached per width since building one parses the whole style sheet.
type Renderer struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// New returns a renderer for style, which is a glamour standard style name
// ("dark", "light", "notty", ...), "auto", or a path to a JSON style file.
func New(style string) *Renderer {
	if style == "" {
		style = DefaultStyle
	}
	return &Renderer{style: style, cache: make(map[int]*glamour.TermRenderer)}
}

func clampWidth(width int) int {
	if width <= 0 {
		return defaultWidth
	}
	if width < minWidth {
		return minWidth
	}
	return width
}

func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}

	styleOpt := glamour.WithStylePath(r.style)
	if r.style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	r.cache[width] = tr
	return tr, nil
}

// Markdown renders text as markdown wrapped to width. When glamour fails
// the text is returned wrapped but otherwise untouched.
func (r *Renderer) Markdown(text string, width int) string {
	width = clampWidth(width)
	tr, err := r.termRenderer(width)
	if err != nil {
		debug.Log(debug.UI, "render: glamour style %q: %v", r.style, err)
		return Plain(text, width)
	}
	out, err := tr.Render(text)
	if err != nil {
		debug.Log(debug.UI, "render: markdown: %v", err)
		return Plain(text, width)
	}
	return out
}

// Plain wraps text at word boundaries, breaking words longer than width.
func Plain(text string, width int) string {
	width = clampWidth(width)
	return wrap.String(wordwrap.String(text, width), width)
}

// Preview renders a note for the preview pane based on its file name.
// Markdown files go through glamour; everything else is wrapped text.
func (r *Renderer) Preview(name, text string, width int) string {
	if notes.IsMarkdownName(name) {
		return r.Markdown(text, width)
	}
	return Plain(text, width)
}

// Source highlights text as the raw source of a note called name.
func Source(text, name string) string {
	lexer := "text"
	if notes.IsMarkdownName(name) {
		lexer = "markdown"
	}
	b := new(strings.Builder)
	if err := quick.Highlight(b, text, lexer, "terminal256", "dracula"); err != nil {
		return text
	}
	return b.String()
}
