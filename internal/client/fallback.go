package client

import (
	"context"
	"log/slog"

	"github.com/hitoshi/intranet/internal/metrics"
	"github.com/hitoshi/intranet/internal/model"
)

// Fallback はprimaryに到達できない場合に限りfallbackで1回だけ再実行するBackend。
//
// 検証エラーなどバックエンドが応答したエラーはそのまま返す。
// fallbackも失敗した場合はfallbackのエラーを返す。
type Fallback struct {
	primary  Backend
	fallback Backend
	metrics  metrics.MetricsCollector
	logger   *slog.Logger
}

var _ Backend = (*Fallback)(nil)

// NewFallback はFallbackを生成する。
func NewFallback(primary, fallback Backend, collector metrics.MetricsCollector, logger *slog.Logger) *Fallback {
	if collector == nil {
		collector = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{
		primary:  primary,
		fallback: fallback,
		metrics:  collector,
		logger:   logger,
	}
}

// withFallback はprimaryを呼び出し、到達不能の場合のみfallbackを呼び出す。
func withFallback[T any](f *Fallback, resource string, primary, fallback func() (T, error)) (T, error) {
	v, err := primary()
	if err == nil || !IsUnreachable(err) {
		return v, err
	}

	f.logger.Warn("APIに到達できないため直接アクセスに切り替えます",
		slog.String("resource", resource),
		slog.String("error", err.Error()),
	)
	f.metrics.RecordSubmissionFallback(resource)

	v, err = fallback()
	if err != nil {
		f.logger.Error("直接アクセスにも失敗しました",
			slog.String("resource", resource),
			slog.String("error", err.Error()),
		)
	}
	return v, err
}

func (f *Fallback) CreateStatus(ctx context.Context, input model.CreateStatusInput) (*model.StatusUpdate, error) {
	return withFallback(f, "status",
		func() (*model.StatusUpdate, error) { return f.primary.CreateStatus(ctx, input) },
		func() (*model.StatusUpdate, error) { return f.fallback.CreateStatus(ctx, input) },
	)
}

func (f *Fallback) CreateDocument(ctx context.Context, input model.CreateDocumentInput) (*model.Document, error) {
	return withFallback(f, "document",
		func() (*model.Document, error) { return f.primary.CreateDocument(ctx, input) },
		func() (*model.Document, error) { return f.fallback.CreateDocument(ctx, input) },
	)
}

func (f *Fallback) CreateBlogPost(ctx context.Context, input model.CreateBlogPostInput) (*model.BlogPost, error) {
	return withFallback(f, "blog",
		func() (*model.BlogPost, error) { return f.primary.CreateBlogPost(ctx, input) },
		func() (*model.BlogPost, error) { return f.fallback.CreateBlogPost(ctx, input) },
	)
}

func (f *Fallback) CreateSpace(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error) {
	return withFallback(f, "space",
		func() (*model.Space, error) { return f.primary.CreateSpace(ctx, input) },
		func() (*model.Space, error) { return f.fallback.CreateSpace(ctx, input) },
	)
}

func (f *Fallback) GetUser(ctx context.Context, id model.ID) (*model.User, error) {
	return withFallback(f, "user",
		func() (*model.User, error) { return f.primary.GetUser(ctx, id) },
		func() (*model.User, error) { return f.fallback.GetUser(ctx, id) },
	)
}

func (f *Fallback) ListUsers(ctx context.Context, query string, page model.Page) (*model.UserPage, error) {
	return withFallback(f, "users",
		func() (*model.UserPage, error) { return f.primary.ListUsers(ctx, query, page) },
		func() (*model.UserPage, error) { return f.fallback.ListUsers(ctx, query, page) },
	)
}

func (f *Fallback) ListSpaces(ctx context.Context, query string, page model.Page) (*model.SpacePage, error) {
	return withFallback(f, "spaces",
		func() (*model.SpacePage, error) { return f.primary.ListSpaces(ctx, query, page) },
		func() (*model.SpacePage, error) { return f.fallback.ListSpaces(ctx, query, page) },
	)
}
