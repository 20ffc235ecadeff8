package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cs []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cs = append(cs, &c)
	}
	return cs, rows.Err()
}

// Get loads the category, its root post and every subcategory with its post.
func (r *CategoryRepository) Get(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, notFound(err, "get category")
	}

	root, err := scanPost(r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE category_id = $1 AND subcategory_id IS NULL`, id))
	switch {
	case err == nil:
		c.Post = root
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.category_id, s.name,
		       p.id, p.category_id, p.subcategory_id, p.content, p.views
		FROM subcategories s
		LEFT JOIN posts p ON p.subcategory_id = s.id
		WHERE s.category_id = $1
		ORDER BY s.id`, id)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSubCategoryWithPost(rows)
		if err != nil {
			return nil, err
		}
		c.SubCategories = append(c.SubCategories, s)
	}
	return &c, rows.Err()
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id, name`, name).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) Rename(ctx context.Context, id int64, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1 RETURNING id, name`, id, name).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, notFound(err, "rename category")
	}
	return &c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM categories WHERE id = $1`, id)
}

type SubCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewSubCategoryRepository(pool *pgxpool.Pool) *SubCategoryRepository {
	return &SubCategoryRepository{pool: pool}
}

func (r *SubCategoryRepository) Get(ctx context.Context, id int64) (*domain.SubCategory, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT s.id, s.category_id, s.name,
		       p.id, p.category_id, p.subcategory_id, p.content, p.views
		FROM subcategories s
		LEFT JOIN posts p ON p.subcategory_id = s.id
		WHERE s.id = $1`, id)
	return scanSubCategoryWithPost(row)
}

func (r *SubCategoryRepository) Create(ctx context.Context, categoryID int64, name string) (*domain.SubCategory, error) {
	s := domain.SubCategory{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO subcategories (category_id, name) VALUES ($1, $2)
		RETURNING id, category_id, name`, categoryID, name).Scan(&s.ID, &s.CategoryID, &s.Name)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return &s, nil
}

func (r *SubCategoryRepository) Rename(ctx context.Context, id int64, name string) (*domain.SubCategory, error) {
	s := domain.SubCategory{}
	err := r.pool.QueryRow(ctx, `
		UPDATE subcategories SET name = $2 WHERE id = $1
		RETURNING id, category_id, name`, id, name).Scan(&s.ID, &s.CategoryID, &s.Name)
	if err != nil {
		return nil, notFound(err, "rename subcategory")
	}
	return &s, nil
}

func (r *SubCategoryRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM subcategories WHERE id = $1`, id)
}

func scanSubCategoryWithPost(row rowScanner) (*domain.SubCategory, error) {
	var (
		s domain.SubCategory

		postID, postCategoryID, postSubID, postViews *int64
		postContent                                  *string
	)
	err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &postID, &postCategoryID, &postSubID, &postContent, &postViews)
	if err != nil {
		return nil, notFound(err, "scan subcategory")
	}
	if postID != nil {
		s.Post = &domain.Post{
			ID:            *postID,
			CategoryID:    *postCategoryID,
			SubCategoryID: postSubID,
			Content:       *postContent,
			Views:         *postViews,
		}
	}
	return &s, nil
}

// notFound maps pgx.ErrNoRows to domain.ErrNotFound and wraps anything else.
func notFound(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, db execer, sql string, args ...any) error {
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
