package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hitoshi/intranet/internal/client"
	"github.com/hitoshi/intranet/internal/labels"
	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/overlay"
)

// values はフォームの入力値。キーはfieldSpec.key。
type values map[string]string

// submitFunc は入力値から投稿を行い、成功時の通知文を返す。
type submitFunc func(ctx context.Context, s client.Submitter, author *model.User, v values) (string, error)

type fieldSpec struct {
	key         string
	label       string
	placeholder string
	value       string
	multiline   bool
}

// formSpec はフォーム1種類の定義。
type formSpec struct {
	name         overlay.Name
	title        string
	submitLabel  string
	cancelLabel  string
	restriction  string
	fields       []fieldSpec
	submit       submitFunc
	mayPost      func(u *model.User) bool
	deniedReason string
}

// form はマウント中のフォームビュー。
type form struct {
	spec       formSpec
	inputs     []input
	focus      int
	user       *model.User
	onClose    func()
	submitting bool
	err        string
}

func newForm(spec formSpec, user *model.User, onClose func()) (*form, tea.Cmd) {
	f := &form{spec: spec, user: user, onClose: onClose}
	for _, fs := range spec.fields {
		if fs.multiline {
			in := newAreaInput(fs.placeholder)
			in.SetValue(fs.value)
			f.inputs = append(f.inputs, in)
		} else {
			f.inputs = append(f.inputs, newLineInput(fs.placeholder, fs.value))
		}
	}
	var cmd tea.Cmd
	if len(f.inputs) > 0 {
		cmd = f.inputs[0].Focus()
	}
	return f, cmd
}

// allowed は操作ユーザーがこのフォームで投稿できるかどうかを返す。
func (f *form) allowed() bool {
	return f.spec.mayPost == nil || f.spec.mayPost(f.user)
}

func (f *form) values() values {
	v := make(values, len(f.inputs))
	for i, fs := range f.spec.fields {
		v[fs.key] = f.inputs[i].Value()
	}
	return v
}

func (f *form) move(delta int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab":
		return f.move(1)
	case "shift+tab":
		return f.move(-1)
	}
	if f.submitting || len(f.inputs) == 0 {
		return nil
	}
	return f.inputs[f.focus].Update(msg)
}

func (f *form) view(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(f.spec.title))
	b.WriteString("\n")
	for i, fs := range f.spec.fields {
		label := st.Label
		if i == f.focus {
			label = st.Focused
		}
		b.WriteString(label.Render(fs.label))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}
	if f.spec.restriction != "" {
		b.WriteString(st.Restriction.Render(f.spec.restriction))
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString(st.Error.Render(f.err))
		b.WriteString("\n")
	}
	action := "ctrl+s " + f.spec.submitLabel
	if f.submitting {
		action = "submitting..."
	}
	b.WriteString(st.Muted.Render(action + "  esc " + f.spec.cancelLabel + "  tab next field"))
	return b.String()
}

// formSpecs はオーバーレイ名ごとのフォーム定義を返す。
func formSpecs(l *labels.Labels) map[overlay.Name]formSpec {
	return map[overlay.Name]formSpec{
		overlay.StatusUpdate: statusSpec(l.StatusUpdate),
		overlay.Document:     documentSpec(l.Document),
		overlay.BlogPost:     blogPostSpec(l.BlogPost),
		overlay.Space:        spaceSpec(l.Space),
	}
}

var errNoUser = errors.New("no user logged in")

func canPostStatus(u *model.User) bool {
	return u != nil && u.Role.CanPostStatus()
}

func statusSpec(l labels.StatusLabels) formSpec {
	return formSpec{
		name:         overlay.StatusUpdate,
		title:        l.Title,
		submitLabel:  l.PostButton,
		cancelLabel:  l.CancelButton,
		restriction:  l.RestrictionMessage,
		mayPost:      canPostStatus,
		deniedReason: "Only internal users can post status updates",
		fields: []fieldSpec{
			{key: "body", label: "Status", placeholder: l.BodyPlaceholder, multiline: true},
			{key: "post_in", label: l.PostInLabel, placeholder: l.PostInPlaceholder},
		},
		submit: func(ctx context.Context, s client.Submitter, author *model.User, v values) (string, error) {
			if strings.TrimSpace(v["body"]) == "" {
				return "", errors.New("content is required")
			}
			if author == nil {
				return "", errNoUser
			}
			_, err := s.CreateStatus(ctx, model.CreateStatusInput{
				AuthorID: author.ID,
				Body:     v["body"],
				PostIn:   strings.TrimSpace(v["post_in"]),
			})
			if err != nil {
				return "", err
			}
			return "Status update posted", nil
		},
	}
}

func visibilityHint(opts []labels.VisibilityOption) string {
	ids := make([]string, 0, len(opts))
	for _, o := range opts {
		ids = append(ids, o.ID)
	}
	return strings.Join(ids, " | ")
}

func placeHint(opts []labels.VisibilityOption) string {
	for _, o := range opts {
		if o.InputPlaceholder != "" {
			return o.InputPlaceholder
		}
	}
	return ""
}

func contentFields(l labels.ContentLabels, defaultVisibility model.VisibilityType) []fieldSpec {
	return []fieldSpec{
		{key: "title", label: "Title", placeholder: l.TitlePlaceholder},
		{key: "body", label: "Body", placeholder: l.BodyPlaceholder, multiline: true},
		{key: "visibility", label: l.VisibilitySection, placeholder: visibilityHint(l.VisibilityOptions), value: string(defaultVisibility)},
		{key: "place", label: "Place", placeholder: placeHint(l.VisibilityOptions)},
		{key: "tags", label: l.TagsSection, placeholder: strings.Join(l.AvailableTags, ", ")},
	}
}

func visibilityFrom(v values) *model.Visibility {
	t := strings.TrimSpace(v["visibility"])
	if t == "" {
		return nil
	}
	return &model.Visibility{
		Type:      model.VisibilityType(t),
		PlaceName: strings.TrimSpace(v["place"]),
	}
}

// parseTags はカンマ区切りのタグを分割する。空要素は除く。
func parseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func documentSpec(l labels.ContentLabels) formSpec {
	return formSpec{
		name:        overlay.Document,
		title:       l.Title,
		submitLabel: l.PublishButton,
		cancelLabel: l.CancelButton,
		restriction: l.RestrictionMessage,
		fields:      contentFields(l, model.DefaultDocumentVisibility),
		submit: func(ctx context.Context, s client.Submitter, author *model.User, v values) (string, error) {
			if author == nil {
				return "", errNoUser
			}
			_, err := s.CreateDocument(ctx, model.CreateDocumentInput{
				AuthorID:   author.ID,
				Title:      v["title"],
				Body:       v["body"],
				Visibility: visibilityFrom(v),
				Tags:       parseTags(v["tags"]),
			})
			if err != nil {
				return "", err
			}
			return "Document published", nil
		},
	}
}

func blogPostSpec(l labels.ContentLabels) formSpec {
	fields := contentFields(l, model.DefaultBlogVisibility)
	fields = append(fields, fieldSpec{key: "blog_for", label: l.BlogForLabel, placeholder: model.DefaultBlogName})
	return formSpec{
		name:        overlay.BlogPost,
		title:       l.Title,
		submitLabel: l.PublishButton,
		cancelLabel: l.CancelButton,
		restriction: l.RestrictionMessage,
		fields:      fields,
		submit: func(ctx context.Context, s client.Submitter, author *model.User, v values) (string, error) {
			if author == nil {
				return "", errNoUser
			}
			_, err := s.CreateBlogPost(ctx, model.CreateBlogPostInput{
				AuthorID:   author.ID,
				Title:      v["title"],
				Body:       v["body"],
				Visibility: visibilityFrom(v),
				Tags:       parseTags(v["tags"]),
				BlogFor:    strings.TrimSpace(v["blog_for"]),
			})
			if err != nil {
				return "", err
			}
			return "Blog post published", nil
		},
	}
}

func spaceSpec(l labels.SpaceLabels) formSpec {
	return formSpec{
		name:        overlay.Space,
		title:       l.Title,
		submitLabel: l.CreateButton,
		cancelLabel: l.CancelButton,
		fields: []fieldSpec{
			{key: "name", label: l.NameLabel},
			{key: "parent_place", label: l.Question, placeholder: l.InputPlaceholder},
		},
		submit: func(ctx context.Context, s client.Submitter, author *model.User, v values) (string, error) {
			if author == nil {
				return "", errNoUser
			}
			_, err := s.CreateSpace(ctx, model.CreateSpaceInput{
				Name:        v["name"],
				CreatedBy:   author.ID,
				ParentPlace: strings.TrimSpace(v["parent_place"]),
			})
			if err != nil {
				return "", err
			}
			return "Space created", nil
		},
	}
}
