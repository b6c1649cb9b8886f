package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/intranet/internal/model"
)

const spaceColumns = `id, name, user_id, parent_place, created_at, updated_at`

// PostgresSpaceRepo はPostgreSQLを使用したスペースリポジトリ。
type PostgresSpaceRepo struct {
	db *sql.DB
}

// NewPostgresSpaceRepo はPostgresSpaceRepoを生成する。
func NewPostgresSpaceRepo(db *sql.DB) *PostgresSpaceRepo {
	return &PostgresSpaceRepo{db: db}
}

func scanSpace(s rowScanner) (*model.Space, error) {
	space := &model.Space{}
	if err := s.Scan(
		&space.ID, &space.Name, &space.UserID, &space.ParentPlace,
		&space.CreatedAt, &space.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return space, nil
}

// List は名前の部分一致でスペースを検索し、作成日時の降順で返す。
func (r *PostgresSpaceRepo) List(ctx context.Context, query string, page model.Page) ([]*model.Space, int, error) {
	where := ""
	args := []any{}
	if query != "" {
		where = ` WHERE name ILIKE $1`
		args = append(args, likePattern(query))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM spaces`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count spaces: %w", err)
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM spaces%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		spaceColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list spaces: %w", err)
	}
	defer rows.Close()

	spaces := []*model.Space{}
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan space: %w", err)
		}
		spaces = append(spaces, space)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate spaces: %w", err)
	}

	return spaces, total, nil
}

// FindByID は指定IDのスペースを取得する。見つからない場合はnilを返す。
func (r *PostgresSpaceRepo) FindByID(ctx context.Context, id model.ID) (*model.Space, error) {
	space, err := scanSpace(r.db.QueryRowContext(ctx,
		`SELECT `+spaceColumns+` FROM spaces WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find space by ID: %w", err)
	}
	return space, nil
}

// Create はスペースを作成する。
func (r *PostgresSpaceRepo) Create(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error) {
	space, err := scanSpace(r.db.QueryRowContext(ctx,
		`INSERT INTO spaces (name, user_id, parent_place)
		 VALUES ($1, $2, $3)
		 RETURNING `+spaceColumns,
		input.Name, input.CreatedBy, input.ParentPlace,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert space: %w", err)
	}
	return space, nil
}

// Update はnilでない項目のみを更新する。見つからない場合はnilを返す。
func (r *PostgresSpaceRepo) Update(ctx context.Context, id model.ID, input model.UpdateSpaceInput) (*model.Space, error) {
	space, err := scanSpace(r.db.QueryRowContext(ctx,
		`UPDATE spaces
		 SET name = COALESCE($1, name),
		     parent_place = COALESCE($2, parent_place),
		     updated_at = now()
		 WHERE id = $3
		 RETURNING `+spaceColumns,
		input.Name, input.ParentPlace, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update space: %w", err)
	}
	return space, nil
}

// likePattern はILIKE用に部分一致パターンを組み立てる。
// 検索語中のワイルドカード文字はエスケープする。
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(query) + "%"
}

// compile-time interface check
var _ SpaceRepository = (*PostgresSpaceRepo)(nil)
