// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は文書・ブログ記事のリッチテキスト本文をサニタイズし、
// 保存前にXSSの原因となるマークアップを取り除く。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// エディタが出力するタグと属性のみを通過させる。
package security

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はHTMLコンテンツのサニタイズ機能のインターフェースを定義する。
type ContentSanitizerService interface {
	// Sanitize はHTMLコンテンツをサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, h1-h3, a, ul, ol, li, blockquote, pre, code, strong, em, u, s, img）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// imgタグのsrc属性はhttpsスキームか、アップロード済みファイルの相対パス（/uploads/）のみ許可される。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(rawHTML string) string
}

// uploadPathPattern はローカルストレージに保存されたアップロードファイルのパス。
var uploadPathPattern = regexp.MustCompile(`^/uploads/[A-Za-z0-9._-]+$`)

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "h1", "h2", "h3",
		"ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em", "u", "s",
	)

	// リンク: http(s)とmailtoのみ。外部リンクには target="_blank" と rel を付与する。
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	// 画像: httpsの絶対URLかアップロード済みファイルのパス。
	p.AllowAttrs("alt").OnElements("img")
	p.AllowAttrs("src").Matching(regexp.MustCompile(`^(https://|/uploads/)`)).OnElements("img")

	return &contentSanitizer{
		policy: p,
	}
}

// Sanitize はHTMLコンテンツをサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}

// IsUploadPath はパスがローカルアップロードファイルを指すかどうかを返す。
func IsUploadPath(path string) bool {
	return uploadPathPattern.MatchString(path)
}
