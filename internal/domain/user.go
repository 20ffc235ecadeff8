package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyVerified = errors.New("user is already verified")
	ErrEmailTaken      = errors.New("email address is already taken")
	ErrSameEmail       = errors.New("new email matches the current one")
)

type User struct {
	ID             int64
	Email          string
	Name           string
	HashedPassword string
	IsVerified     bool
	IsAdmin        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type UserCreate struct {
	Email          string
	Name           string
	HashedPassword string
	IsAdmin        bool
}

// UserUpdate is a partial update: nil fields are left untouched.
type UserUpdate struct {
	Email          *string
	Name           *string
	HashedPassword *string
	IsVerified     *bool
}

func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Name == nil && u.HashedPassword == nil && u.IsVerified == nil
}

var ErrMissingArguments = errors.New("missing arguments")
