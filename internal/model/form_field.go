package model

import (
	"encoding/json"
	"time"
)

// FormFields は管理者が定義するフォームの項目スキーマ。
type FormFields struct {
	ID          ID              `json:"id"`
	FormName    string          `json:"form_name"`
	FieldSchema json.RawMessage `json:"field_schema"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UpsertFormFieldsInput はフォーム項目定義の登録・更新リクエストのボディ。
type UpsertFormFieldsInput struct {
	FormName        string          `json:"formName"`
	FieldSchemaJSON json.RawMessage `json:"fieldSchemaJson"`
}

// EmptyFormFields は定義が未登録のフォームに対して返すレスポンス。
type EmptyFormFields struct {
	FormName    string          `json:"formName"`
	FieldSchema json.RawMessage `json:"fieldSchema"`
}
