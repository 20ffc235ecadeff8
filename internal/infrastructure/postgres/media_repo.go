package postgres

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const mediaColumns = `id, type, file_name, file_url, data`

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

// List returns every file, or only those of mediaType when it is set.
func (r *MediaRepository) List(ctx context.Context, mediaType domain.MediaType) ([]*domain.MediaFile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+mediaColumns+` FROM media_files
		WHERE $1 = '' OR type = $1
		ORDER BY id`, string(mediaType))
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var ms []*domain.MediaFile
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

func (r *MediaRepository) Get(ctx context.Context, id int64) (*domain.MediaFile, error) {
	return scanMedia(r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media_files WHERE id = $1`, id))
}

func (r *MediaRepository) Create(ctx context.Context, m *domain.MediaFile) (*domain.MediaFile, error) {
	return scanMedia(r.pool.QueryRow(ctx, `
		INSERT INTO media_files (type, file_name, file_url, data)
		VALUES ($1, $2, $3, $4)
		RETURNING `+mediaColumns, m.Type, m.FileName, m.FileURL, m.Data))
}

func (r *MediaRepository) Update(ctx context.Context, m *domain.MediaFile) (*domain.MediaFile, error) {
	return scanMedia(r.pool.QueryRow(ctx, `
		UPDATE media_files SET type = $2, file_name = $3, file_url = $4, data = $5
		WHERE id = $1
		RETURNING `+mediaColumns, m.ID, m.Type, m.FileName, m.FileURL, m.Data))
}

func (r *MediaRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.pool, `DELETE FROM media_files WHERE id = $1`, id)
}

func scanMedia(row rowScanner) (*domain.MediaFile, error) {
	var m domain.MediaFile
	if err := row.Scan(&m.ID, &m.Type, &m.FileName, &m.FileURL, &m.Data); err != nil {
		return nil, notFound(err, "scan media")
	}
	return &m, nil
}
