// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/intranet/internal/database"
	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/repository"
)

// Service はユーザー管理のサービス層。
// 一覧検索、取得、作成、部分更新のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// List は検索語に一致するユーザーをページ単位で返す。
func (s *Service) List(ctx context.Context, query string, page model.Page) (*model.UserPage, error) {
	users, total, err := s.userRepo.List(ctx, strings.TrimSpace(query), page)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return &model.UserPage{
		Users: users,
		Page:  page.Page,
		Limit: page.Limit,
		Total: total,
	}, nil
}

// Get は指定IDのユーザーを返す。
func (s *Service) Get(ctx context.Context, id model.ID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// Create はユーザーを作成する。
// nameとemailは必須。roleは省略時にexternalとなる。
func (s *Service) Create(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Department = strings.TrimSpace(input.Department)
	input.AvatarURL = strings.TrimSpace(input.AvatarURL)

	if input.Name == "" || input.Email == "" {
		return nil, model.NewValidationError("Name and email are required")
	}
	if input.Role == "" {
		input.Role = model.DefaultRole
	}
	if !input.Role.Valid() {
		return nil, invalidRoleError(input.Role)
	}

	user, err := s.userRepo.Create(ctx, input)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, model.NewDuplicateEmailError()
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("ユーザーを作成しました", slog.String("user_id", user.ID.String()), slog.String("role", string(user.Role)))
	return user, nil
}

// Update は指定された項目のみを更新する。
func (s *Service) Update(ctx context.Context, id model.ID, input model.UpdateUserInput) (*model.User, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, model.NewValidationError("Name must not be empty")
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) == "" {
		return nil, model.NewValidationError("Email must not be empty")
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, invalidRoleError(*input.Role)
	}

	user, err := s.userRepo.Update(ctx, id, input)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, model.NewDuplicateEmailError()
		}
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

func invalidRoleError(role model.Role) *model.APIError {
	return model.NewValidationError(fmt.Sprintf(
		"Invalid role %q. Use internal, external, admin, moderator, or guest", string(role)))
}
