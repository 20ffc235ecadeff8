package postgres

import (
	"context"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, category_id, subcategory_id, content, views`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

// View bumps the counter and returns the post in one statement.
func (r *PostRepository) View(ctx context.Context, id int64) (*domain.Post, error) {
	return scanPost(r.pool.QueryRow(ctx,
		`UPDATE posts SET views = views + 1 WHERE id = $1 RETURNING `+postColumns, id))
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	created, err := scanPost(r.pool.QueryRow(ctx, `
		INSERT INTO posts (category_id, subcategory_id, content)
		VALUES ($1, $2, $3)
		RETURNING `+postColumns, p.CategoryID, p.SubCategoryID, p.Content))
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, domain.ErrPostExists
		case isForeignKeyViolation(err):
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return created, nil
}

func (r *PostRepository) UpdateContent(ctx context.Context, id int64, content string) (*domain.Post, error) {
	return scanPost(r.pool.QueryRow(ctx,
		`UPDATE posts SET content = $2 WHERE id = $1 RETURNING `+postColumns, id, content))
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM posts WHERE id = $1`, id)
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.CategoryID, &p.SubCategoryID, &p.Content, &p.Views); err != nil {
		return nil, notFound(err, "scan post")
	}
	return &p, nil
}
