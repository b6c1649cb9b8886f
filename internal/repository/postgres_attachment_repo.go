package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/intranet/internal/model"
)

// PostgresAttachmentRepo はPostgreSQLを使用した添付ファイルリポジトリ。
type PostgresAttachmentRepo struct {
	db *sql.DB
}

// NewPostgresAttachmentRepo はPostgresAttachmentRepoを生成する。
func NewPostgresAttachmentRepo(db *sql.DB) *PostgresAttachmentRepo {
	return &PostgresAttachmentRepo{db: db}
}

// Create は添付ファイルレコードを作成する。ContentIDがnilの場合はNULLで保存する。
func (r *PostgresAttachmentRepo) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	created := &model.Attachment{}
	var contentID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO attachments (content_type, content_id, file_url, file_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, content_type, content_id, file_url, file_name, created_at`,
		a.ContentType, a.ContentID, a.FileURL, a.FileName,
	).Scan(&created.ID, &created.ContentType, &contentID, &created.FileURL, &created.FileName, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert attachment: %w", err)
	}
	if contentID.Valid {
		id := model.ID(contentID.Int64)
		created.ContentID = &id
	}
	return created, nil
}

// Delete は添付レコードを削除する。アップロード失敗時の後始末に使う。
func (r *PostgresAttachmentRepo) Delete(ctx context.Context, id model.ID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

// compile-time interface check
var _ AttachmentRepository = (*PostgresAttachmentRepo)(nil)
