// Package space はスペース（プレイス）管理のドメインロジックを提供する。
package space

import (
	"context"
	"fmt"
	"strings"

	"github.com/hitoshi/intranet/internal/database"
	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/repository"
)

// Service はスペース管理のサービス層。
type Service struct {
	spaceRepo repository.SpaceRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(spaceRepo repository.SpaceRepository) *Service {
	return &Service{spaceRepo: spaceRepo}
}

// List は名前に検索語を含むスペースを新しい順に返す。
func (s *Service) List(ctx context.Context, query string, page model.Page) (*model.SpacePage, error) {
	spaces, total, err := s.spaceRepo.List(ctx, strings.TrimSpace(query), page)
	if err != nil {
		return nil, fmt.Errorf("スペース一覧の取得に失敗しました: %w", err)
	}
	return &model.SpacePage{
		Spaces: spaces,
		Page:   page.Page,
		Limit:  page.Limit,
		Total:  total,
	}, nil
}

// Create はスペースを作成する。nameとcreatedByは必須で、parent_placeは省略時に空文字列となる。
// 同名のスペースは重複して作成できる。
func (s *Service) Create(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.ParentPlace = strings.TrimSpace(input.ParentPlace)
	if input.Name == "" || input.CreatedBy.IsZero() {
		return nil, model.NewValidationError("name and createdBy are required")
	}

	space, err := s.spaceRepo.Create(ctx, input)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, model.NewUnknownReferenceError("createdBy")
		}
		return nil, fmt.Errorf("スペースの作成に失敗しました: %w", err)
	}
	return space, nil
}

// Update は指定された項目のみを更新する。
func (s *Service) Update(ctx context.Context, id model.ID, input model.UpdateSpaceInput) (*model.Space, error) {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, model.NewValidationError("name must not be empty")
		}
		input.Name = &name
	}

	space, err := s.spaceRepo.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("スペースの更新に失敗しました: %w", err)
	}
	if space == nil {
		return nil, model.NewSpaceNotFoundError()
	}
	return space, nil
}
