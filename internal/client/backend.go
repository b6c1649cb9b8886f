package client

import (
	"context"

	"github.com/hitoshi/intranet/internal/model"
)

// Submitter はステータス更新・文書・ブログ記事・スペースを投稿する。
type Submitter interface {
	CreateStatus(ctx context.Context, input model.CreateStatusInput) (*model.StatusUpdate, error)
	CreateDocument(ctx context.Context, input model.CreateDocumentInput) (*model.Document, error)
	CreateBlogPost(ctx context.Context, input model.CreateBlogPostInput) (*model.BlogPost, error)
	CreateSpace(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error)
}

// Directory はユーザーとスペースを参照する。
type Directory interface {
	GetUser(ctx context.Context, id model.ID) (*model.User, error)
	ListUsers(ctx context.Context, query string, page model.Page) (*model.UserPage, error)
	ListSpaces(ctx context.Context, query string, page model.Page) (*model.SpacePage, error)
}

// Backend は端末クライアントが利用するデータアクセス。
type Backend interface {
	Submitter
	Directory
}

// ContentService はDirectが利用するコンテンツ投稿サービス。
type ContentService interface {
	CreateStatus(ctx context.Context, input model.CreateStatusInput) (*model.StatusUpdate, error)
	CreateDocument(ctx context.Context, input model.CreateDocumentInput) (*model.Document, error)
	CreateBlogPost(ctx context.Context, input model.CreateBlogPostInput) (*model.BlogPost, error)
}

// SpaceService はDirectが利用するスペースサービス。
type SpaceService interface {
	List(ctx context.Context, query string, page model.Page) (*model.SpacePage, error)
	Create(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error)
}

// UserService はDirectが利用するユーザーサービス。
type UserService interface {
	List(ctx context.Context, query string, page model.Page) (*model.UserPage, error)
	Get(ctx context.Context, id model.ID) (*model.User, error)
}

// Direct はAPIを経由せずサービス層を直接呼び出すBackend。
// 項目の変換と検証はAPIハンドラーと同じサービス層が行う。
type Direct struct {
	content ContentService
	spaces  SpaceService
	users   UserService
}

var _ Backend = (*Direct)(nil)

// NewDirect はDirectを生成する。
func NewDirect(content ContentService, spaces SpaceService, users UserService) *Direct {
	return &Direct{content: content, spaces: spaces, users: users}
}

func (d *Direct) CreateStatus(ctx context.Context, input model.CreateStatusInput) (*model.StatusUpdate, error) {
	return d.content.CreateStatus(ctx, input)
}

func (d *Direct) CreateDocument(ctx context.Context, input model.CreateDocumentInput) (*model.Document, error) {
	return d.content.CreateDocument(ctx, input)
}

func (d *Direct) CreateBlogPost(ctx context.Context, input model.CreateBlogPostInput) (*model.BlogPost, error) {
	return d.content.CreateBlogPost(ctx, input)
}

func (d *Direct) CreateSpace(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error) {
	return d.spaces.Create(ctx, input)
}

func (d *Direct) GetUser(ctx context.Context, id model.ID) (*model.User, error) {
	u, err := d.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}
	return u, nil
}

func (d *Direct) ListUsers(ctx context.Context, query string, page model.Page) (*model.UserPage, error) {
	return d.users.List(ctx, query, page)
}

func (d *Direct) ListSpaces(ctx context.Context, query string, page model.Page) (*model.SpacePage, error) {
	return d.spaces.List(ctx, query, page)
}
