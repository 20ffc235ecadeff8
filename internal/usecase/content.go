package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/repository"
)

// ContentUsecase serves the public guide content. Role checks happen at the
// router; this layer only validates input.
type ContentUsecase struct {
	categories    repository.CategoryRepository
	subcategories repository.SubCategoryRepository
	posts         repository.PostRepository
	media         repository.MediaRepository
}

func NewContentUsecase(
	categories repository.CategoryRepository,
	subcategories repository.SubCategoryRepository,
	posts repository.PostRepository,
	media repository.MediaRepository,
) *ContentUsecase {
	return &ContentUsecase{
		categories:    categories,
		subcategories: subcategories,
		posts:         posts,
		media:         media,
	}
}

// Categories

func (u *ContentUsecase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	cs, err := u.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cs, nil
}

func (u *ContentUsecase) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := u.categories.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (u *ContentUsecase) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	c, err := u.categories.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (u *ContentUsecase) RenameCategory(ctx context.Context, id int64, name string) (*domain.Category, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	c, err := u.categories.Rename(ctx, id, name)
	if err != nil {
		return nil, fmt.Errorf("rename category: %w", err)
	}
	return c, nil
}

func (u *ContentUsecase) DeleteCategory(ctx context.Context, id int64) error {
	if err := u.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Subcategories

func (u *ContentUsecase) GetSubCategory(ctx context.Context, id int64) (*domain.SubCategory, error) {
	s, err := u.subcategories.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get subcategory: %w", err)
	}
	return s, nil
}

func (u *ContentUsecase) CreateSubCategory(ctx context.Context, categoryID int64, name string) (*domain.SubCategory, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	if _, err := u.categories.Get(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	s, err := u.subcategories.Create(ctx, categoryID, name)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return s, nil
}

func (u *ContentUsecase) RenameSubCategory(ctx context.Context, id int64, name string) (*domain.SubCategory, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	s, err := u.subcategories.Rename(ctx, id, name)
	if err != nil {
		return nil, fmt.Errorf("rename subcategory: %w", err)
	}
	return s, nil
}

func (u *ContentUsecase) DeleteSubCategory(ctx context.Context, id int64) error {
	if err := u.subcategories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}

// Posts

func (u *ContentUsecase) ViewPost(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := u.posts.View(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("view post: %w", err)
	}
	return p, nil
}

// CreatePost attaches a post to a category, or to one of its subcategories
// when subCategoryID is set.
func (u *ContentUsecase) CreatePost(ctx context.Context, categoryID int64, subCategoryID *int64, content string) (*domain.Post, error) {
	if subCategoryID != nil {
		sub, err := u.subcategories.Get(ctx, *subCategoryID)
		if err != nil {
			return nil, fmt.Errorf("get subcategory: %w", err)
		}
		if sub.CategoryID != categoryID {
			return nil, fmt.Errorf("subcategory %d does not belong to category %d: %w", sub.ID, categoryID, domain.ErrNotFound)
		}
	} else if _, err := u.categories.Get(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	p, err := u.posts.Create(ctx, &domain.Post{
		CategoryID:    categoryID,
		SubCategoryID: subCategoryID,
		Content:       content,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (u *ContentUsecase) UpdatePost(ctx context.Context, id int64, content string) (*domain.Post, error) {
	p, err := u.posts.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (u *ContentUsecase) DeletePost(ctx context.Context, id int64) error {
	if err := u.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Media

func (u *ContentUsecase) ListMedia(ctx context.Context, mediaType domain.MediaType) ([]*domain.MediaFile, error) {
	ms, err := u.media.List(ctx, mediaType)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return ms, nil
}

func (u *ContentUsecase) GetMedia(ctx context.Context, id int64) (*domain.MediaFile, error) {
	m, err := u.media.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	return m, nil
}

func (u *ContentUsecase) CreateMedia(ctx context.Context, m *domain.MediaFile) (*domain.MediaFile, error) {
	created, err := u.media.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

func (u *ContentUsecase) UpdateMedia(ctx context.Context, m *domain.MediaFile) (*domain.MediaFile, error) {
	updated, err := u.media.Update(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("update media: %w", err)
	}
	return updated, nil
}

func (u *ContentUsecase) DeleteMedia(ctx context.Context, id int64) error {
	if err := u.media.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrMissingArguments
	}
	return name, nil
}
