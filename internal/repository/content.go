package repository

import (
	"context"

	"github.com/ErlanBelekov/guide-api/internal/domain"
)

// All content lookups return domain.ErrNotFound when the row is missing.

type CategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
	// Get loads the category with its subcategories and root post.
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type SubCategoryRepository interface {
	Get(ctx context.Context, id int64) (*domain.SubCategory, error)
	Create(ctx context.Context, categoryID int64, name string) (*domain.SubCategory, error)
	Rename(ctx context.Context, id int64, name string) (*domain.SubCategory, error)
	Delete(ctx context.Context, id int64) error
}

type PostRepository interface {
	// View returns the post and counts the read.
	View(ctx context.Context, id int64) (*domain.Post, error)
	// Create returns domain.ErrPostExists when the category/subcategory slot is taken.
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	UpdateContent(ctx context.Context, id int64, content string) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
}

type MediaRepository interface {
	List(ctx context.Context, mediaType domain.MediaType) ([]*domain.MediaFile, error)
	Get(ctx context.Context, id int64) (*domain.MediaFile, error)
	Create(ctx context.Context, m *domain.MediaFile) (*domain.MediaFile, error)
	Update(ctx context.Context, m *domain.MediaFile) (*domain.MediaFile, error)
	Delete(ctx context.Context, id int64) error
}

// PersonalInformationRepository scopes every call to the owning user.
type PersonalInformationRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*domain.PersonalInformation, error)
	Get(ctx context.Context, id, userID int64) (*domain.PersonalInformation, error)
	Create(ctx context.Context, p *domain.PersonalInformation) (*domain.PersonalInformation, error)
	UpdateContent(ctx context.Context, id, userID int64, content *string) (*domain.PersonalInformation, error)
	Delete(ctx context.Context, id, userID int64) error
}
