// Package labels は作成メニューと各フォームの表示ラベルを提供する。
//
// ラベルはYAMLで定義する。既定値はバイナリに埋め込み、FORM_LABELS_PATHで
// 指定したファイルの項目だけを上書きする。
package labels

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hitoshi/intranet/internal/overlay"
)

//go:embed default_labels.yaml
var defaultYAML []byte

// Labels はラベル定義全体。
type Labels struct {
	CreateMenu   Menu          `yaml:"createMenu"`
	StatusUpdate StatusLabels  `yaml:"statusUpdate"`
	Document     ContentLabels `yaml:"document"`
	BlogPost     ContentLabels `yaml:"blogPost"`
	Space        SpaceLabels   `yaml:"space"`
}

// Menu は作成メニュー。
type Menu struct {
	Title    string   `yaml:"title"`
	Sections Sections `yaml:"sections"`
}

// Sections はメニューの区分。表示順はcreate, more, communities。
type Sections struct {
	Create      []MenuItem `yaml:"create"`
	More        []MenuItem `yaml:"more"`
	Communities []MenuItem `yaml:"communities"`
}

// MenuItem はメニューの1項目。HasFormがfalseの項目は選択してもフォームを開かない。
type MenuItem struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	HasForm     bool   `yaml:"hasForm"`
}

// Entry は区分名付きのメニュー項目。
type Entry struct {
	Section string
	MenuItem
}

// Entries はメニュー項目を表示順に返す。
func (m Menu) Entries() []Entry {
	var out []Entry
	for _, s := range []struct {
		name  string
		items []MenuItem
	}{
		{"create", m.Sections.Create},
		{"more", m.Sections.More},
		{"communities", m.Sections.Communities},
	} {
		for _, item := range s.items {
			out = append(out, Entry{Section: s.name, MenuItem: item})
		}
	}
	return out
}

// Overlay はフォームを持つ項目が開くオーバーレイ名を返す。
func (i MenuItem) Overlay() (overlay.Name, bool) {
	if !i.HasForm {
		return overlay.None, false
	}
	name, err := overlay.ParseName(i.ID)
	if err != nil || name == overlay.Menu {
		return overlay.None, false
	}
	return name, true
}

// StatusLabels はステータス更新フォームのラベル。
type StatusLabels struct {
	Title              string `yaml:"title"`
	BodyPlaceholder    string `yaml:"bodyPlaceholder"`
	PostInLabel        string `yaml:"postInLabel"`
	PostInPlaceholder  string `yaml:"postInPlaceholder"`
	PostButton         string `yaml:"postButton"`
	CancelButton       string `yaml:"cancelButton"`
	RestrictionMessage string `yaml:"restrictionMessage"`
}

// ContentLabels は文書・ブログ記事フォームのラベル。
type ContentLabels struct {
	Title              string             `yaml:"title"`
	TitlePlaceholder   string             `yaml:"titlePlaceholder"`
	BodyPlaceholder    string             `yaml:"bodyPlaceholder"`
	VisibilitySection  string             `yaml:"visibilitySection"`
	VisibilityOptions  []VisibilityOption `yaml:"visibilityOptions"`
	TagsSection        string             `yaml:"tagsSection"`
	TagsDescription    string             `yaml:"tagsDescription"`
	AvailableTags      []string           `yaml:"availableTags"`
	BlogForLabel       string             `yaml:"blogForLabel,omitempty"`
	PublishButton      string             `yaml:"publishButton"`
	CancelButton       string             `yaml:"cancelButton"`
	RestrictionMessage string             `yaml:"restrictionMessage,omitempty"`
}

// VisibilityOption は公開範囲の選択肢。IDはvisibility.typeの値。
type VisibilityOption struct {
	ID               string `yaml:"id"`
	Label            string `yaml:"label"`
	Description      string `yaml:"description,omitempty"`
	InputPlaceholder string `yaml:"inputPlaceholder,omitempty"`
}

// SpaceLabels はスペース作成フォームのラベル。
type SpaceLabels struct {
	Title            string `yaml:"title"`
	Subtitle         string `yaml:"subtitle"`
	NameLabel        string `yaml:"nameLabel"`
	Question         string `yaml:"question"`
	InputPlaceholder string `yaml:"inputPlaceholder"`
	CreateButton     string `yaml:"createButton"`
	CancelButton     string `yaml:"cancelButton"`
}

// Default は埋め込みの既定ラベルを返す。
func Default() (*Labels, error) {
	l := &Labels{}
	if err := decode(defaultYAML, l); err != nil {
		return nil, fmt.Errorf("parse default labels: %w", err)
	}
	return l, nil
}

// Load はpathのYAMLで既定ラベルを上書きして返す。pathが空なら既定ラベルを返す。
// 未知のキーはエラーとする。
func Load(path string) (*Labels, error) {
	l, err := Default()
	if err != nil {
		return nil, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return l, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels file %q: %w", path, err)
	}
	if err := decode(content, l); err != nil {
		return nil, fmt.Errorf("parse labels file %q: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid labels file %q: %w", path, err)
	}
	return l, nil
}

func decode(content []byte, l *Labels) error {
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	return decoder.Decode(l)
}

// Validate はメニュー項目IDの重複と、フォームを持つ項目のIDを検証する。
func (l *Labels) Validate() error {
	seen := make(map[string]bool)
	for _, e := range l.CreateMenu.Entries() {
		if e.ID == "" {
			return fmt.Errorf("menu item %q in %s has no id", e.Label, e.Section)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate menu item id %q", e.ID)
		}
		seen[e.ID] = true
		if e.HasForm {
			if _, ok := e.Overlay(); !ok {
				return fmt.Errorf("menu item %q has a form but no such overlay exists", e.ID)
			}
		}
	}
	return nil
}
