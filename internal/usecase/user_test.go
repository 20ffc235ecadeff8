package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T, repo *memUserRepo, n int) {
	t.Helper()
	for i := range n {
		_, err := repo.Create(context.Background(), domain.UserCreate{
			Email: fmt.Sprintf("user%d@x.com", i),
			Name:  fmt.Sprintf("User %d", i),
		})
		require.NoError(t, err)
	}
}

func TestListUsers_Pagination(t *testing.T) {
	repo := newMemUserRepo()
	seedUsers(t, repo, 5)
	uc := usecase.NewUserUsecase(repo)
	ctx := context.Background()

	page, err := uc.ListUsers(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page.Users, 2)
	assert.Equal(t, int64(1), page.Users[0].ID)
	assert.Equal(t, int64(2), page.NextAfter)

	page, err = uc.ListUsers(ctx, page.NextAfter, 2)
	require.NoError(t, err)
	require.Len(t, page.Users, 2)
	assert.Equal(t, int64(3), page.Users[0].ID)
	assert.Equal(t, int64(4), page.NextAfter)

	page, err = uc.ListUsers(ctx, page.NextAfter, 2)
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Zero(t, page.NextAfter)
}

func TestListUsers_DefaultLimit(t *testing.T) {
	repo := newMemUserRepo()
	seedUsers(t, repo, 3)
	uc := usecase.NewUserUsecase(repo)

	page, err := uc.ListUsers(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Users, 3)
	assert.Zero(t, page.NextAfter)
}

func TestListUsers_StoreError(t *testing.T) {
	repo := newMemUserRepo()
	repo.err = errStoreDown

	_, err := usecase.NewUserUsecase(repo).ListUsers(context.Background(), 0, 10)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestGetUser(t *testing.T) {
	repo := newMemUserRepo()
	seedUsers(t, repo, 1)
	uc := usecase.NewUserUsecase(repo)

	u, err := uc.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "user0@x.com", u.Email)

	_, err = uc.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChangeName(t *testing.T) {
	repo := newMemUserRepo()
	seedUsers(t, repo, 1)
	uc := usecase.NewUserUsecase(repo)
	me := &domain.User{ID: 1}

	u, err := uc.ChangeName(context.Background(), me, "  Bob ")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)

	_, err = uc.ChangeName(context.Background(), me, "   ")
	assert.ErrorIs(t, err, domain.ErrMissingArguments)
}
