package usecase_test

import (
	"context"
	"testing"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	listFn   func(ctx context.Context) ([]*domain.Category, error)
	getFn    func(ctx context.Context, id int64) (*domain.Category, error)
	createFn func(ctx context.Context, name string) (*domain.Category, error)
	renameFn func(ctx context.Context, id int64, name string) (*domain.Category, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	return f.listFn(ctx)
}

func (f *fakeCategoryRepo) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return f.getFn(ctx, id)
}

func (f *fakeCategoryRepo) Create(ctx context.Context, name string) (*domain.Category, error) {
	return f.createFn(ctx, name)
}

func (f *fakeCategoryRepo) Rename(ctx context.Context, id int64, name string) (*domain.Category, error) {
	return f.renameFn(ctx, id, name)
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteFn(ctx, id)
}

type fakeSubCategoryRepo struct {
	getFn    func(ctx context.Context, id int64) (*domain.SubCategory, error)
	createFn func(ctx context.Context, categoryID int64, name string) (*domain.SubCategory, error)
}

func (f *fakeSubCategoryRepo) Get(ctx context.Context, id int64) (*domain.SubCategory, error) {
	return f.getFn(ctx, id)
}

func (f *fakeSubCategoryRepo) Create(ctx context.Context, categoryID int64, name string) (*domain.SubCategory, error) {
	return f.createFn(ctx, categoryID, name)
}

func (f *fakeSubCategoryRepo) Rename(context.Context, int64, string) (*domain.SubCategory, error) {
	panic("not used")
}

func (f *fakeSubCategoryRepo) Delete(context.Context, int64) error {
	panic("not used")
}

type fakePostRepo struct {
	createFn func(ctx context.Context, p *domain.Post) (*domain.Post, error)
}

func (f *fakePostRepo) View(context.Context, int64) (*domain.Post, error) {
	panic("not used")
}

func (f *fakePostRepo) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	return f.createFn(ctx, p)
}

func (f *fakePostRepo) UpdateContent(context.Context, int64, string) (*domain.Post, error) {
	panic("not used")
}

func (f *fakePostRepo) Delete(context.Context, int64) error {
	panic("not used")
}

func knownCategory(ids ...int64) func(context.Context, int64) (*domain.Category, error) {
	return func(_ context.Context, id int64) (*domain.Category, error) {
		for _, known := range ids {
			if id == known {
				return &domain.Category{ID: id, Name: "c"}, nil
			}
		}
		return nil, domain.ErrNotFound
	}
}

func TestCreateCategory_RequiresName(t *testing.T) {
	called := false
	uc := usecase.NewContentUsecase(&fakeCategoryRepo{
		createFn: func(_ context.Context, name string) (*domain.Category, error) {
			called = true
			return &domain.Category{ID: 1, Name: name}, nil
		},
	}, nil, nil, nil)

	_, err := uc.CreateCategory(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrMissingArguments)
	assert.False(t, called)

	c, err := uc.CreateCategory(context.Background(), " Sights ")
	require.NoError(t, err)
	assert.Equal(t, "Sights", c.Name)
}

func TestCreateSubCategory_UnknownCategory(t *testing.T) {
	uc := usecase.NewContentUsecase(
		&fakeCategoryRepo{getFn: knownCategory(1)},
		&fakeSubCategoryRepo{createFn: func(_ context.Context, categoryID int64, name string) (*domain.SubCategory, error) {
			return &domain.SubCategory{ID: 7, CategoryID: categoryID, Name: name}, nil
		}},
		nil, nil,
	)

	_, err := uc.CreateSubCategory(context.Background(), 2, "Museums")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s, err := uc.CreateSubCategory(context.Background(), 1, "Museums")
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.CategoryID)
}

func TestCreatePost(t *testing.T) {
	subs := &fakeSubCategoryRepo{getFn: func(_ context.Context, id int64) (*domain.SubCategory, error) {
		if id == 10 {
			return &domain.SubCategory{ID: 10, CategoryID: 1}, nil
		}
		return nil, domain.ErrNotFound
	}}
	var created *domain.Post
	posts := &fakePostRepo{createFn: func(_ context.Context, p *domain.Post) (*domain.Post, error) {
		if created != nil && created.CategoryID == p.CategoryID && created.SubCategoryID == nil && p.SubCategoryID == nil {
			return nil, domain.ErrPostExists
		}
		cp := *p
		cp.ID = 100
		created = &cp
		return &cp, nil
	}}
	uc := usecase.NewContentUsecase(&fakeCategoryRepo{getFn: knownCategory(1, 2)}, subs, posts, nil)
	ctx := context.Background()

	sub := int64(10)
	p, err := uc.CreatePost(ctx, 1, &sub, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(10), *p.SubCategoryID)

	_, err = uc.CreatePost(ctx, 2, &sub, "wrong parent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing := int64(11)
	_, err = uc.CreatePost(ctx, 1, &missing, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CreatePost(ctx, 3, nil, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created = nil
	_, err = uc.CreatePost(ctx, 1, nil, "root")
	require.NoError(t, err)
	_, err = uc.CreatePost(ctx, 1, nil, "root again")
	assert.ErrorIs(t, err, domain.ErrPostExists)
}
