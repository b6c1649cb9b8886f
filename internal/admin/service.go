// Package admin は管理者向けのフォーム項目定義管理を提供する。
package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/repository"
)

// Service はフォーム項目定義のサービス層。
type Service struct {
	repo repository.FormFieldRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.FormFieldRepository) *Service {
	return &Service{repo: repo}
}

// GetFormFields はフォーム名で定義を取得する。
// 未登録の場合はnilを返し、呼び出し側で空スキーマとして扱う。
func (s *Service) GetFormFields(ctx context.Context, formName string) (*model.FormFields, error) {
	formName = strings.TrimSpace(formName)
	if formName == "" {
		return nil, model.NewValidationError("formName query parameter is required")
	}

	ff, err := s.repo.FindByFormName(ctx, formName)
	if err != nil {
		return nil, fmt.Errorf("フォーム項目定義の取得に失敗しました: %w", err)
	}
	return ff, nil
}

// UpsertFormFields はフォーム項目定義を登録または置き換える。
// fieldSchemaJsonはJSONオブジェクトでなければならない。
func (s *Service) UpsertFormFields(ctx context.Context, input model.UpsertFormFieldsInput) (*model.FormFields, error) {
	formName := strings.TrimSpace(input.FormName)
	schema := bytes.TrimSpace(input.FieldSchemaJSON)
	if formName == "" || len(schema) == 0 || bytes.Equal(schema, []byte("null")) {
		return nil, model.NewValidationError("formName and fieldSchemaJson are required")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(schema, &obj); err != nil {
		return nil, model.NewValidationError("fieldSchemaJson must be a JSON object")
	}

	ff, err := s.repo.Upsert(ctx, formName, schema)
	if err != nil {
		return nil, fmt.Errorf("フォーム項目定義の保存に失敗しました: %w", err)
	}
	return ff, nil
}

// DeleteFormFields はフォーム項目定義を削除する。
func (s *Service) DeleteFormFields(ctx context.Context, id model.ID) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("フォーム項目定義の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewFormFieldsNotFoundError()
	}
	return nil
}
