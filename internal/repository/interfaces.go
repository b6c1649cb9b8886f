// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/intranet/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// List は検索語でユーザーを絞り込み、指定ページのユーザーと総件数を返す。
	// queryが空の場合は全件を対象とする。
	List(ctx context.Context, query string, page model.Page) ([]*model.User, int, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id model.ID) (*model.User, error)

	// Create はユーザーを作成し、採番済みの行を返す。
	// メールアドレスが重複する場合は一意制約違反のエラーを返す。
	Create(ctx context.Context, input model.CreateUserInput) (*model.User, error)

	// Update はnilでない項目のみを更新する。見つからない場合はnilを返す。
	Update(ctx context.Context, id model.ID, input model.UpdateUserInput) (*model.User, error)
}

// SpaceRepository はスペースデータの永続化インターフェース。
type SpaceRepository interface {
	// List は名前でスペースを絞り込み、作成日時の降順で返す。
	List(ctx context.Context, query string, page model.Page) ([]*model.Space, int, error)
	// FindByID は指定IDのスペースを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id model.ID) (*model.Space, error)
	// Create はスペースを作成する。
	Create(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error)
	// Update はnilでない項目のみを更新する。見つからない場合はnilを返す。
	Update(ctx context.Context, id model.ID, input model.UpdateSpaceInput) (*model.Space, error)
}

// ContentRepository はステータス更新・文書・ブログ記事の永続化インターフェース。
type ContentRepository interface {
	CreateStatus(ctx context.Context, status *model.StatusUpdate) (*model.StatusUpdate, error)
	CreateDocument(ctx context.Context, doc *model.Document) (*model.Document, error)
	CreateBlogPost(ctx context.Context, post *model.BlogPost) (*model.BlogPost, error)

	// ListStatuses は投稿者情報付きのステータス更新を新しい順に返す。
	ListStatuses(ctx context.Context, page model.Page) ([]model.StatusEntry, error)
	// ListDocuments は公開済みの文書を新しい順に返す。
	ListDocuments(ctx context.Context, page model.Page) ([]model.DocumentEntry, error)
	// ListBlogPosts は公開済みのブログ記事を新しい順に返す。
	ListBlogPosts(ctx context.Context, page model.Page) ([]model.BlogPostEntry, error)
}

// AttachmentRepository は添付ファイルレコードの永続化インターフェース。
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *model.Attachment) (*model.Attachment, error)
	// Delete は添付レコードを削除する。存在しない場合もnilを返す。
	Delete(ctx context.Context, id model.ID) error
}

// FormFieldRepository はフォーム項目定義の永続化インターフェース。
type FormFieldRepository interface {
	// FindByFormName はフォーム名で定義を取得する。見つからない場合はnilを返す。
	FindByFormName(ctx context.Context, formName string) (*model.FormFields, error)
	// Upsert はform_nameをキーに定義を作成または更新する。
	Upsert(ctx context.Context, formName string, schema []byte) (*model.FormFields, error)
	// DeleteByID は定義を削除する。削除した場合にtrueを返す。
	DeleteByID(ctx context.Context, id model.ID) (bool, error)
}
