package security

import (
	"strings"
	"testing"
)

// TestSanitize_AllowedTags はエディタが出力する許可タグが通過することを検証する。
func TestSanitize_AllowedTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name         string
		input        string
		wantContains []string
	}{
		{"pタグ", "<p>段落</p>", []string{"<p>段落</p>"}},
		{"見出し", "<h2>見出し</h2>", []string{"<h2>見出し</h2>"}},
		{"リスト", "<ul><li>項目1</li></ul><ol><li>項目2</li></ol>", []string{"<ul>", "<ol>", "<li>項目1</li>"}},
		{"装飾", "<strong>太字</strong><em>斜体</em><u>下線</u><s>取消</s>", []string{"<strong>太字</strong>", "<em>斜体</em>", "<u>下線</u>", "<s>取消</s>"}},
		{"コード", "<pre><code>x := 1</code></pre>", []string{"<pre><code>x := 1</code></pre>"}},
		{"引用", "<blockquote>引用</blockquote>", []string{"<blockquote>引用</blockquote>"}},
		{"https画像", `<img src="https://cdn.example.com/a.png" alt="a">`, []string{`src="https://cdn.example.com/a.png"`, `alt="a"`}},
		{"アップロード画像", `<img src="/uploads/0f8fad5b.png">`, []string{`src="/uploads/0f8fad5b.png"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) = %q, want to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

// TestSanitize_ForbiddenMarkup は危険なタグ・属性・URLが除去されることを検証する。
func TestSanitize_ForbiddenMarkup(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name       string
		input      string
		wantAbsent []string
	}{
		{"script", `<p>ok</p><script>alert(1)</script>`, []string{"<script", "alert(1)"}},
		{"iframe", `<iframe src="https://evil.example.com"></iframe>`, []string{"<iframe"}},
		{"style", `<style>body{display:none}</style>`, []string{"<style", "display:none"}},
		{"onclick", `<p onclick="alert(1)">x</p>`, []string{"onclick"}},
		{"onerror", `<img src="https://example.com/a.png" onerror="alert(1)">`, []string{"onerror"}},
		{"javascript href", `<a href="javascript:alert(1)">x</a>`, []string{"javascript:"}},
		{"http画像", `<img src="http://example.com/a.png">`, []string{"http://example.com/a.png"}},
		{"data URI画像", `<img src="data:image/png;base64,AAAA">`, []string{"data:image"}},
		{"div", `<div>x</div>`, []string{"<div"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("Sanitize(%q) = %q, must not contain %q", tt.input, got, absent)
				}
			}
		})
	}
}

func TestSanitize_ExternalLinksOpenInNewTab(t *testing.T) {
	sanitizer := NewContentSanitizer()

	got := sanitizer.Sanitize(`<a href="https://example.com">link</a>`)
	for _, want := range []string{`target="_blank"`, "noreferrer", "noopener"} {
		if !strings.Contains(got, want) {
			t.Errorf("Sanitize() = %q, want to contain %q", got, want)
		}
	}
}

func TestSanitize_EmptyAndIdempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	if got := sanitizer.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}

	input := `<p>Hello <a href="https://example.com">world</a></p><script>x</script>`
	once := sanitizer.Sanitize(input)
	twice := sanitizer.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize is not idempotent:\n once: %q\ntwice: %q", once, twice)
	}
}

func TestIsUploadPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/uploads/abc-123.png", true},
		{"/uploads/../etc/passwd", false},
		{"/uploads/", false},
		{"/static/abc.png", false},
	}
	for _, tt := range tests {
		if got := IsUploadPath(tt.path); got != tt.want {
			t.Errorf("IsUploadPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// 型アサーション: contentSanitizerがContentSanitizerServiceを実装していることを検証
var _ ContentSanitizerService = (*contentSanitizer)(nil)
