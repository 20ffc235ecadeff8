package postgres

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const personalInformationColumns = `id, post_id, user_id, content_type, content`

type PersonalInformationRepository struct {
	pool *pgxpool.Pool
}

func NewPersonalInformationRepository(pool *pgxpool.Pool) *PersonalInformationRepository {
	return &PersonalInformationRepository{pool: pool}
}

func (r *PersonalInformationRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.PersonalInformation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+personalInformationColumns+` FROM personal_information
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list personal information: %w", err)
	}
	defer rows.Close()

	var items []*domain.PersonalInformation
	for rows.Next() {
		it, err := scanPersonalInformation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PersonalInformationRepository) Get(ctx context.Context, id, userID int64) (*domain.PersonalInformation, error) {
	return scanPersonalInformation(r.pool.QueryRow(ctx, `
		SELECT `+personalInformationColumns+` FROM personal_information
		WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *PersonalInformationRepository) Create(ctx context.Context, p *domain.PersonalInformation) (*domain.PersonalInformation, error) {
	created, err := scanPersonalInformation(r.pool.QueryRow(ctx, `
		INSERT INTO personal_information (post_id, user_id, content_type, content)
		VALUES ($1, $2, $3, $4)
		RETURNING `+personalInformationColumns, p.PostID, p.UserID, p.ContentType, p.Content))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return created, nil
}

func (r *PersonalInformationRepository) UpdateContent(ctx context.Context, id, userID int64, content *string) (*domain.PersonalInformation, error) {
	return scanPersonalInformation(r.pool.QueryRow(ctx, `
		UPDATE personal_information SET content = $3
		WHERE id = $1 AND user_id = $2
		RETURNING `+personalInformationColumns, id, userID, content))
}

func (r *PersonalInformationRepository) Delete(ctx context.Context, id, userID int64) error {
	return execOne(ctx, r.pool, `DELETE FROM personal_information WHERE id = $1 AND user_id = $2`, id, userID)
}

func scanPersonalInformation(row rowScanner) (*domain.PersonalInformation, error) {
	var p domain.PersonalInformation
	if err := row.Scan(&p.ID, &p.PostID, &p.UserID, &p.ContentType, &p.Content); err != nil {
		return nil, notFound(err, "scan personal information")
	}
	return &p, nil
}
