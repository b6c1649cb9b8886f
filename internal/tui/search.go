package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hitoshi/intranet/internal/model"
)

// searchLimit はユーザー・スペースそれぞれの検索件数。
const searchLimit = 5

// search はユーザーとスペースを横断検索するビュー。
type search struct {
	query     *lineInput
	onClose   func()
	searching bool
	searched  string
	users     []*model.User
	spaces    []*model.Space
	err       string
}

func newSearch(onClose func()) (*search, tea.Cmd) {
	s := &search{query: newLineInput("Search people and spaces", ""), onClose: onClose}
	return s, s.query.Focus()
}

func (s *search) update(msg tea.KeyMsg) tea.Cmd {
	return s.query.Update(msg)
}

func (s *search) setResult(msg searchResultMsg) {
	s.searching = false
	s.searched = msg.query
	s.users = msg.users
	s.spaces = msg.spaces
	s.err = ""
	if msg.err != nil {
		s.err = msg.err.Error()
	}
}

func (s *search) view(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Search"))
	b.WriteString("\n")
	b.WriteString(s.query.View())
	b.WriteString("\n\n")

	switch {
	case s.searching:
		b.WriteString(st.Muted.Render("searching..."))
		b.WriteString("\n")
	case s.err != "":
		b.WriteString(st.Error.Render(s.err))
		b.WriteString("\n")
	case s.searched != "":
		b.WriteString(st.Label.Render("People"))
		b.WriteString("\n")
		if len(s.users) == 0 {
			b.WriteString(st.Muted.Render("  no matches"))
			b.WriteString("\n")
		}
		for _, u := range s.users {
			b.WriteString(fmt.Sprintf("  %s <%s> %s\n", u.Name, u.Email, u.Department))
		}
		b.WriteString(st.Label.Render("Spaces"))
		b.WriteString("\n")
		if len(s.spaces) == 0 {
			b.WriteString(st.Muted.Render("  no matches"))
			b.WriteString("\n")
		}
		for _, sp := range s.spaces {
			line := "  " + sp.Name
			if sp.ParentPlace != "" {
				line += st.Muted.Render(" in " + sp.ParentPlace)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(st.Muted.Render("enter search  esc close"))
	return b.String()
}
