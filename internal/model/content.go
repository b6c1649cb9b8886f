package model

import "time"

// ContentType はニュースフィードに流れるコンテンツの種別を表す。
type ContentType string

const (
	ContentTypeStatus   ContentType = "status"
	ContentTypeDocument ContentType = "document"
	ContentTypeBlog     ContentType = "blog"
)

// ParseContentType は一覧APIのtypeパラメータを解釈する。
func ParseContentType(raw string) (ContentType, error) {
	switch ContentType(raw) {
	case ContentTypeStatus, ContentTypeDocument, ContentTypeBlog:
		return ContentType(raw), nil
	}
	return "", NewInvalidContentTypeError()
}

// VisibilityType は文書・ブログ記事の公開範囲を表す。
type VisibilityType string

const (
	VisibilityPlace          VisibilityType = "place"
	VisibilityHidden         VisibilityType = "hidden"
	VisibilitySpecificPeople VisibilityType = "specific_people"
	VisibilityCommunity      VisibilityType = "community"
	VisibilityPersonalBlog   VisibilityType = "personal_blog"
)

// Valid は定義済みの公開範囲かどうかを返す。
func (v VisibilityType) Valid() bool {
	switch v {
	case VisibilityPlace, VisibilityHidden, VisibilitySpecificPeople, VisibilityCommunity, VisibilityPersonalBlog:
		return true
	}
	return false
}

// PublishStatus は文書・ブログ記事の公開状態。
type PublishStatus string

const (
	StatusPublished PublishStatus = "published"
	StatusDraft     PublishStatus = "draft"
)

// 省略時のデフォルト値
const (
	DefaultDocumentVisibility = VisibilityCommunity
	DefaultBlogVisibility     = VisibilityPersonalBlog
	DefaultBlogName           = "Personal Blog"
)

// Visibility は公開範囲の指定。PlaceNameはtypeがplaceの場合に投稿先スペース名を持つ。
type Visibility struct {
	Type      VisibilityType `json:"type"`
	PlaceName string         `json:"placeName,omitempty"`
}

// StatusUpdate は短いステータス更新投稿を表す。
type StatusUpdate struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"user_id"`
	Content   string    `json:"content"`
	PostIn    string    `json:"post_in"`
	CreatedAt time.Time `json:"created_at"`
}

// Document は文書を表す。
type Document struct {
	ID             ID             `json:"id"`
	UserID         ID             `json:"user_id"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	VisibilityType VisibilityType `json:"visibility_type"`
	PlaceName      string         `json:"place_name"`
	Tags           []string       `json:"tags"`
	Status         PublishStatus  `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// BlogPost はブログ記事を表す。
type BlogPost struct {
	ID             ID             `json:"id"`
	UserID         ID             `json:"user_id"`
	Title          string         `json:"title"`
	Content        string         `json:"content"`
	VisibilityType VisibilityType `json:"visibility_type"`
	PlaceName      string         `json:"place_name"`
	BlogName       string         `json:"blog_name"`
	Tags           []string       `json:"tags"`
	Status         PublishStatus  `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Author はフィード表示用の投稿者情報。
type Author struct {
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
}

// StatusEntry は投稿者情報付きのステータス更新。
type StatusEntry struct {
	StatusUpdate
	Author
}

// DocumentEntry は投稿者情報付きの文書。
type DocumentEntry struct {
	Document
	Author
}

// BlogPostEntry は投稿者情報付きのブログ記事。
type BlogPostEntry struct {
	BlogPost
	Author
}

// ContentPage はコンテンツ一覧APIのレスポンス。
// Contentの要素型はtypeに応じてStatusEntry、DocumentEntry、BlogPostEntryのいずれかになる。
type ContentPage struct {
	Content any `json:"content"`
	Page    int `json:"page"`
	Limit   int `json:"limit"`
}

// CreateStatusInput はステータス更新作成リクエストのボディ。
type CreateStatusInput struct {
	AuthorID ID     `json:"authorId"`
	Body     string `json:"body"`
	PostIn   string `json:"postIn,omitempty"`
}

// CreateDocumentInput は文書作成リクエストのボディ。
type CreateDocumentInput struct {
	AuthorID   ID          `json:"authorId"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	Visibility *Visibility `json:"visibility,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
}

// CreateBlogPostInput はブログ記事作成リクエストのボディ。
type CreateBlogPostInput struct {
	AuthorID   ID          `json:"authorId"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	Visibility *Visibility `json:"visibility,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	BlogFor    string      `json:"blogFor,omitempty"`
}
