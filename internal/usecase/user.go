package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/repository"
)

const (
	defaultUserPageSize = 50
	maxUserPageSize     = 200
)

type UserUsecase struct {
	users repository.UserRepository
}

func NewUserUsecase(users repository.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

func (u *UserUsecase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

type ListUsersResult struct {
	Users     []*domain.User
	NextAfter int64 // 0 = no more pages
}

func (u *UserUsecase) ListUsers(ctx context.Context, afterID int64, limit int) (*ListUsersResult, error) {
	if limit <= 0 {
		limit = defaultUserPageSize
	}
	limit = min(limit, maxUserPageSize)

	// fetch one extra row to know whether another page exists
	users, err := u.users.List(ctx, repository.ListUsersInput{AfterID: afterID, Limit: limit + 1})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	res := &ListUsersResult{Users: users}
	if len(users) > limit {
		res.Users = users[:limit]
		res.NextAfter = res.Users[limit-1].ID
	}
	return res, nil
}

func (u *UserUsecase) ChangeName(ctx context.Context, user *domain.User, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrMissingArguments
	}
	updated, err := u.users.Update(ctx, user.ID, domain.UserUpdate{Name: &name})
	if err != nil {
		return nil, fmt.Errorf("change name: %w", err)
	}
	return updated, nil
}
