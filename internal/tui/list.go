package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"

	"github.com/phravins/notepane/internal/notes"
)

// listingSource lets fuzzy match against note names.
type listingSource notes.Listing

func (l listingSource) String(i int) string { return l[i].Name }
func (l listingSource) Len() int            { return len(l) }

// listPane is the left pane. visible holds indexes into the listing, in
// display order; cursor is a position in visible.
type listPane struct {
	filter  string
	visible []int
	cursor  int
}

func (p *listPane) update(listing notes.Listing) {
	p.visible = p.visible[:0]
	if p.filter == "" {
		for i := range listing {
			p.visible = append(p.visible, i)
		}
	} else {
		for _, match := range fuzzy.FindFrom(p.filter, listingSource(listing)) {
			p.visible = append(p.visible, match.Index)
		}
	}
	p.clamp()
}

func (p *listPane) clamp() {
	if p.cursor >= len(p.visible) {
		p.cursor = len(p.visible) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *listPane) move(delta int) {
	p.cursor += delta
	p.clamp()
}

// selected returns the listing index under the cursor.
func (p *listPane) selected() (int, bool) {
	if len(p.visible) == 0 {
		return 0, false
	}
	return p.visible[p.cursor], true
}

// focusIndex moves the cursor onto listing index i if it is visible.
func (p *listPane) focusIndex(i int) {
	for pos, idx := range p.visible {
		if idx == i {
			p.cursor = pos
			return
		}
	}
}

// render draws the entries that fit in height lines. Each entry takes two
// lines: the title and a dimmed line with date and modification time.
func (p *listPane) render(listing notes.Listing, active int, dirty bool, width, height int) string {
	if len(listing) == 0 {
		return subtleStyle.Render(" no notes here")
	}
	if len(p.visible) == 0 {
		return subtleStyle.Render(fmt.Sprintf(" nothing matches %q", p.filter))
	}

	perPage := height / 2
	if perPage < 1 {
		perPage = 1
	}
	start := 0
	if p.cursor >= perPage {
		start = p.cursor - perPage + 1
	}
	end := start + perPage
	if end > len(p.visible) {
		end = len(p.visible)
	}

	var b strings.Builder
	for pos := start; pos < end; pos++ {
		idx := p.visible[pos]
		d := listing[idx]

		mark := "  "
		if idx == active && dirty {
			mark = dirtyMarkStyle.Render("* ")
		} else if idx == active {
			mark = "> "
		}
		title := truncate(d.Title, width-4)

		style := itemStyle
		switch {
		case pos == p.cursor:
			style = selectedItemStyle
		case idx == active:
			style = activeItemStyle
		}
		b.WriteString(style.Render(mark + title))
		b.WriteString("\n")

		meta := humanize.Time(d.ModTime)
		if d.Date != "" {
			meta = d.Date + ", " + meta
		}
		meta += ", " + humanize.Bytes(uint64(d.Size))
		b.WriteString(subtleStyle.Render("   " + truncate(meta, width-4)))
		if pos < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "~"
}
