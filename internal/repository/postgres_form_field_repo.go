package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/intranet/internal/model"
)

// PostgresFormFieldRepo はPostgreSQLを使用したフォーム項目定義リポジトリ。
type PostgresFormFieldRepo struct {
	db *sql.DB
}

// NewPostgresFormFieldRepo はPostgresFormFieldRepoを生成する。
func NewPostgresFormFieldRepo(db *sql.DB) *PostgresFormFieldRepo {
	return &PostgresFormFieldRepo{db: db}
}

func scanFormFields(s rowScanner) (*model.FormFields, error) {
	ff := &model.FormFields{}
	var schema []byte
	if err := s.Scan(&ff.ID, &ff.FormName, &schema, &ff.CreatedAt, &ff.UpdatedAt); err != nil {
		return nil, err
	}
	ff.FieldSchema = schema
	return ff, nil
}

// FindByFormName はフォーム名で定義を取得する。見つからない場合はnilを返す。
func (r *PostgresFormFieldRepo) FindByFormName(ctx context.Context, formName string) (*model.FormFields, error) {
	ff, err := scanFormFields(r.db.QueryRowContext(ctx,
		`SELECT id, form_name, field_schema, created_at, updated_at
		 FROM form_fields WHERE form_name = $1`,
		formName,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find form fields: %w", err)
	}
	return ff, nil
}

// Upsert はform_nameをキーに定義を作成し、既存の場合はスキーマを置き換える。
func (r *PostgresFormFieldRepo) Upsert(ctx context.Context, formName string, schema []byte) (*model.FormFields, error) {
	ff, err := scanFormFields(r.db.QueryRowContext(ctx,
		`INSERT INTO form_fields (form_name, field_schema)
		 VALUES ($1, $2::jsonb)
		 ON CONFLICT (form_name)
		 DO UPDATE SET field_schema = EXCLUDED.field_schema, updated_at = now()
		 RETURNING id, form_name, field_schema, created_at, updated_at`,
		formName, string(schema),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert form fields: %w", err)
	}
	return ff, nil
}

// DeleteByID は定義を削除する。対象が存在しない場合はfalseを返す。
func (r *PostgresFormFieldRepo) DeleteByID(ctx context.Context, id model.ID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM form_fields WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete form fields: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ FormFieldRepository = (*PostgresFormFieldRepo)(nil)
