package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/intranet/internal/model"
)

const userColumns = `id, name, email, department, profile_image_url, role, created_at, updated_at`

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*model.User, error) {
	user := &model.User{}
	err := s.Scan(
		&user.ID, &user.Name, &user.Email, &user.Department,
		&user.ProfileImageURL, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List は名前・メールアドレス・部署の部分一致でユーザーを検索する。
func (r *PostgresUserRepo) List(ctx context.Context, query string, page model.Page) ([]*model.User, int, error) {
	where := ""
	args := []any{}
	if query != "" {
		where = ` WHERE name ILIKE $1 OR email ILIKE $1 OR department ILIKE $1`
		args = append(args, likePattern(query))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY id LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id model.ID) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, department, profile_image_url, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		input.Name, input.Email, input.Department, input.AvatarURL, input.Role,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// Update はnilでない項目のみを更新する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) Update(ctx context.Context, id model.ID, input model.UpdateUserInput) (*model.User, error) {
	var role *string
	if input.Role != nil {
		s := string(*input.Role)
		role = &s
	}

	user, err := scanUser(r.db.QueryRowContext(ctx,
		`UPDATE users
		 SET name = COALESCE($1, name),
		     email = COALESCE($2, email),
		     department = COALESCE($3, department),
		     profile_image_url = COALESCE($4, profile_image_url),
		     role = COALESCE($5, role),
		     updated_at = now()
		 WHERE id = $6
		 RETURNING `+userColumns,
		input.Name, input.Email, input.Department, input.AvatarURL, role, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
