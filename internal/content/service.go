// Package content はステータス更新・文書・ブログ記事の投稿と一覧のドメインロジックを提供する。
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/intranet/internal/database"
	"github.com/hitoshi/intranet/internal/metrics"
	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/repository"
	"github.com/hitoshi/intranet/internal/security"
)

// Service はコンテンツ投稿のサービス層。
// 文書とブログ記事の本文はリッチテキストとしてサニタイズしてから保存する。
type Service struct {
	repo      repository.ContentRepository
	sanitizer security.ContentSanitizerService
	metrics   metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.ContentRepository,
	sanitizer security.ContentSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   collector,
	}
}

// CreateStatus はステータス更新を作成する。authorIdとbodyは必須。
func (s *Service) CreateStatus(ctx context.Context, input model.CreateStatusInput) (*model.StatusUpdate, error) {
	body := strings.TrimSpace(input.Body)
	if input.AuthorID.IsZero() || body == "" {
		return nil, model.NewValidationError("authorId and body are required")
	}

	created, err := s.repo.CreateStatus(ctx, &model.StatusUpdate{
		UserID:  input.AuthorID,
		Content: body,
		PostIn:  strings.TrimSpace(input.PostIn),
	})
	if err != nil {
		return nil, s.wrapCreateError("ステータス更新", err)
	}

	s.recordCreated(model.ContentTypeStatus, created.ID)
	return created, nil
}

// CreateDocument は文書を作成する。authorId、title、bodyは必須。
// visibility省略時はcommunityとなる。
func (s *Service) CreateDocument(ctx context.Context, input model.CreateDocumentInput) (*model.Document, error) {
	title, body, err := s.titleAndBody(input.AuthorID, input.Title, input.Body)
	if err != nil {
		return nil, err
	}
	visibility, err := resolveVisibility(input.Visibility, model.DefaultDocumentVisibility)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateDocument(ctx, &model.Document{
		UserID:         input.AuthorID,
		Title:          title,
		Content:        body,
		VisibilityType: visibility.Type,
		PlaceName:      visibility.PlaceName,
		Tags:           normalizeTags(input.Tags),
		Status:         model.StatusPublished,
	})
	if err != nil {
		return nil, s.wrapCreateError("文書", err)
	}

	s.recordCreated(model.ContentTypeDocument, created.ID)
	return created, nil
}

// CreateBlogPost はブログ記事を作成する。authorId、title、bodyは必須。
// visibility省略時はpersonal_blog、blogFor省略時は "Personal Blog" となる。
func (s *Service) CreateBlogPost(ctx context.Context, input model.CreateBlogPostInput) (*model.BlogPost, error) {
	title, body, err := s.titleAndBody(input.AuthorID, input.Title, input.Body)
	if err != nil {
		return nil, err
	}
	visibility, err := resolveVisibility(input.Visibility, model.DefaultBlogVisibility)
	if err != nil {
		return nil, err
	}
	blogName := strings.TrimSpace(input.BlogFor)
	if blogName == "" {
		blogName = model.DefaultBlogName
	}

	created, err := s.repo.CreateBlogPost(ctx, &model.BlogPost{
		UserID:         input.AuthorID,
		Title:          title,
		Content:        body,
		VisibilityType: visibility.Type,
		PlaceName:      visibility.PlaceName,
		BlogName:       blogName,
		Tags:           normalizeTags(input.Tags),
		Status:         model.StatusPublished,
	})
	if err != nil {
		return nil, s.wrapCreateError("ブログ記事", err)
	}

	s.recordCreated(model.ContentTypeBlog, created.ID)
	return created, nil
}

// List は指定種別のコンテンツを投稿者情報付きで新しい順に返す。
// 文書とブログ記事は公開済みのもののみを返す。
func (s *Service) List(ctx context.Context, rawType string, page model.Page) (*model.ContentPage, error) {
	contentType, err := model.ParseContentType(rawType)
	if err != nil {
		return nil, err
	}

	var entries any
	switch contentType {
	case model.ContentTypeStatus:
		entries, err = s.repo.ListStatuses(ctx, page)
	case model.ContentTypeDocument:
		entries, err = s.repo.ListDocuments(ctx, page)
	case model.ContentTypeBlog:
		entries, err = s.repo.ListBlogPosts(ctx, page)
	}
	if err != nil {
		return nil, fmt.Errorf("コンテンツ一覧の取得に失敗しました: %w", err)
	}

	return &model.ContentPage{
		Content: entries,
		Page:    page.Page,
		Limit:   page.Limit,
	}, nil
}

// titleAndBody は文書・ブログ記事共通の必須項目を検証し、サニタイズ済みの本文を返す。
// サニタイズの結果、本文が空になった場合も未入力として扱う。
func (s *Service) titleAndBody(authorID model.ID, rawTitle, rawBody string) (string, string, error) {
	title := strings.TrimSpace(rawTitle)
	body := strings.TrimSpace(s.sanitizer.Sanitize(rawBody))
	if authorID.IsZero() || title == "" || body == "" {
		return "", "", model.NewValidationError("authorId, title, and body are required")
	}
	return title, body, nil
}

func (s *Service) wrapCreateError(kind string, err error) error {
	if database.IsForeignKeyViolation(err) {
		return model.NewUnknownReferenceError("authorId")
	}
	return fmt.Errorf("%sの作成に失敗しました: %w", kind, err)
}

func (s *Service) recordCreated(contentType model.ContentType, id model.ID) {
	s.metrics.RecordContentCreated(string(contentType))
	slog.Debug("コンテンツを作成しました",
		slog.String("type", string(contentType)),
		slog.String("id", id.String()),
	)
}

// resolveVisibility は公開範囲の省略時デフォルトを適用し、値を検証する。
func resolveVisibility(v *model.Visibility, fallback model.VisibilityType) (model.Visibility, error) {
	resolved := model.Visibility{Type: fallback}
	if v != nil {
		if v.Type != "" {
			resolved.Type = v.Type
		}
		resolved.PlaceName = strings.TrimSpace(v.PlaceName)
	}
	if !resolved.Type.Valid() {
		return resolved, model.NewValidationError(fmt.Sprintf("Invalid visibility type %q", string(resolved.Type)))
	}
	if resolved.Type == model.VisibilityPlace && resolved.PlaceName == "" {
		return resolved, model.NewValidationError("visibility.placeName is required when visibility type is place")
	}
	return resolved, nil
}

// normalizeTags は前後の空白を除去し、空要素と重複を取り除く。順序は保持する。
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
