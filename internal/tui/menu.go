package tui

import (
	"strings"

	"github.com/hitoshi/intranet/internal/labels"
)

// menu は作成メニューのビュー。
type menu struct {
	title   string
	entries []labels.Entry
	cursor  int
	onClose func()
}

func newMenu(m labels.Menu, onClose func()) *menu {
	return &menu{title: m.Title, entries: m.Entries(), onClose: onClose}
}

func (m *menu) up() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *menu) down() {
	if m.cursor < len(m.entries)-1 {
		m.cursor++
	}
}

func (m *menu) selected() (labels.Entry, bool) {
	if len(m.entries) == 0 {
		return labels.Entry{}, false
	}
	return m.entries[m.cursor], true
}

var sectionHeadings = map[string]string{
	"more":        "More:",
	"communities": "Communities:",
}

func (m *menu) view(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(m.title))
	b.WriteString("\n")
	section := ""
	for i, e := range m.entries {
		if e.Section != section {
			section = e.Section
			if h, ok := sectionHeadings[section]; ok {
				b.WriteString("\n")
				b.WriteString(st.Label.Render(h))
				b.WriteString("\n")
			}
		}
		line := "  " + e.Label
		if e.Description != "" {
			line += st.Muted.Render("  " + e.Description)
		}
		if i == m.cursor {
			line = st.Selected.Render("> " + e.Label)
			if e.Description != "" {
				line += st.Muted.Render("  " + e.Description)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.Muted.Render("enter select  esc close"))
	return b.String()
}
