package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/intranet/internal/model"
)

// PostgresContentRepo はPostgreSQLを使用したコンテンツリポジトリ。
// status_updates、documents、blog_postsの3テーブルを扱う。
type PostgresContentRepo struct {
	db *sql.DB
}

// NewPostgresContentRepo はPostgresContentRepoを生成する。
func NewPostgresContentRepo(db *sql.DB) *PostgresContentRepo {
	return &PostgresContentRepo{db: db}
}

// CreateStatus はステータス更新を作成する。
func (r *PostgresContentRepo) CreateStatus(ctx context.Context, status *model.StatusUpdate) (*model.StatusUpdate, error) {
	created := &model.StatusUpdate{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO status_updates (user_id, content, post_in)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, content, post_in, created_at`,
		status.UserID, status.Content, status.PostIn,
	).Scan(&created.ID, &created.UserID, &created.Content, &created.PostIn, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert status update: %w", err)
	}
	return created, nil
}

// CreateDocument は文書を作成する。
func (r *PostgresContentRepo) CreateDocument(ctx context.Context, doc *model.Document) (*model.Document, error) {
	created := &model.Document{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO documents (user_id, title, content, visibility_type, place_name, tags, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, title, content, visibility_type, place_name, tags, status, created_at, updated_at`,
		doc.UserID, doc.Title, doc.Content, doc.VisibilityType, doc.PlaceName, pq.Array(nonNilTags(doc.Tags)), doc.Status,
	).Scan(
		&created.ID, &created.UserID, &created.Title, &created.Content,
		&created.VisibilityType, &created.PlaceName, pq.Array(&created.Tags), &created.Status,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}
	return created, nil
}

// CreateBlogPost はブログ記事を作成する。
func (r *PostgresContentRepo) CreateBlogPost(ctx context.Context, post *model.BlogPost) (*model.BlogPost, error) {
	created := &model.BlogPost{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO blog_posts (user_id, title, content, visibility_type, place_name, blog_name, tags, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, user_id, title, content, visibility_type, place_name, blog_name, tags, status, created_at, updated_at`,
		post.UserID, post.Title, post.Content, post.VisibilityType, post.PlaceName, post.BlogName,
		pq.Array(nonNilTags(post.Tags)), post.Status,
	).Scan(
		&created.ID, &created.UserID, &created.Title, &created.Content,
		&created.VisibilityType, &created.PlaceName, &created.BlogName, pq.Array(&created.Tags), &created.Status,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert blog post: %w", err)
	}
	return created, nil
}

// ListStatuses は投稿者情報付きのステータス更新を新しい順に返す。
func (r *PostgresContentRepo) ListStatuses(ctx context.Context, page model.Page) ([]model.StatusEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.user_id, s.content, s.post_in, s.created_at,
		       u.name, u.profile_image_url
		FROM status_updates s
		JOIN users u ON s.user_id = u.id
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list status updates: %w", err)
	}
	defer rows.Close()

	entries := []model.StatusEntry{}
	for rows.Next() {
		var e model.StatusEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Content, &e.PostIn, &e.CreatedAt,
			&e.AuthorName, &e.AuthorAvatar,
		); err != nil {
			return nil, fmt.Errorf("failed to scan status update: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status updates: %w", err)
	}
	return entries, nil
}

// ListDocuments は公開済みの文書を新しい順に返す。
func (r *PostgresContentRepo) ListDocuments(ctx context.Context, page model.Page) ([]model.DocumentEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.user_id, d.title, d.content, d.visibility_type, d.place_name,
		       d.tags, d.status, d.created_at, d.updated_at,
		       u.name, u.profile_image_url
		FROM documents d
		JOIN users u ON d.user_id = u.id
		WHERE d.status = 'published'
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	entries := []model.DocumentEntry{}
	for rows.Next() {
		var e model.DocumentEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Title, &e.Content, &e.VisibilityType, &e.PlaceName,
			pq.Array(&e.Tags), &e.Status, &e.CreatedAt, &e.UpdatedAt,
			&e.AuthorName, &e.AuthorAvatar,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return entries, nil
}

// ListBlogPosts は公開済みのブログ記事を新しい順に返す。
func (r *PostgresContentRepo) ListBlogPosts(ctx context.Context, page model.Page) ([]model.BlogPostEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.user_id, b.title, b.content, b.visibility_type, b.place_name,
		       b.blog_name, b.tags, b.status, b.created_at, b.updated_at,
		       u.name, u.profile_image_url
		FROM blog_posts b
		JOIN users u ON b.user_id = u.id
		WHERE b.status = 'published'
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	entries := []model.BlogPostEntry{}
	for rows.Next() {
		var e model.BlogPostEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Title, &e.Content, &e.VisibilityType, &e.PlaceName,
			&e.BlogName, pq.Array(&e.Tags), &e.Status, &e.CreatedAt, &e.UpdatedAt,
			&e.AuthorName, &e.AuthorAvatar,
		); err != nil {
			return nil, fmt.Errorf("failed to scan blog post: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blog posts: %w", err)
	}
	return entries, nil
}

// nonNilTags はNOT NULLのtext[]列に渡すため、nilを空配列に置き換える。
func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// compile-time interface check
var _ ContentRepository = (*PostgresContentRepo)(nil)
