package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// input はフォームの1入力欄。
type input interface {
	Focus() tea.Cmd
	Blur()
	Value() string
	SetValue(string)
	Update(tea.Msg) tea.Cmd
	View() string
}

// lineInput は1行入力欄。
type lineInput struct {
	m textinput.Model
}

func newLineInput(placeholder, value string) *lineInput {
	m := textinput.New()
	m.Placeholder = placeholder
	m.CharLimit = 200
	m.Width = 50
	m.SetValue(value)
	return &lineInput{m: m}
}

func (i *lineInput) Focus() tea.Cmd    { return i.m.Focus() }
func (i *lineInput) Blur()             { i.m.Blur() }
func (i *lineInput) Value() string     { return i.m.Value() }
func (i *lineInput) SetValue(v string) { i.m.SetValue(v) }
func (i *lineInput) View() string      { return i.m.View() }
func (i *lineInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.m, cmd = i.m.Update(msg)
	return cmd
}

// areaInput は本文用の複数行入力欄。
type areaInput struct {
	m textarea.Model
}

func newAreaInput(placeholder string) *areaInput {
	m := textarea.New()
	m.Placeholder = placeholder
	m.ShowLineNumbers = false
	m.SetWidth(60)
	m.SetHeight(5)
	return &areaInput{m: m}
}

func (i *areaInput) Focus() tea.Cmd    { return i.m.Focus() }
func (i *areaInput) Blur()             { i.m.Blur() }
func (i *areaInput) Value() string     { return i.m.Value() }
func (i *areaInput) SetValue(v string) { i.m.SetValue(v) }
func (i *areaInput) View() string      { return i.m.View() }
func (i *areaInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	i.m, cmd = i.m.Update(msg)
	return cmd
}
