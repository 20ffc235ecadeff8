package repository

import (
	"context"
	"io"

	"github.com/ErlanBelekov/guide-api/internal/domain"
)

type FileStorage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	// Open returns domain.ErrNotFound when no file has that name.
	Open(ctx context.Context, name string) (*domain.StoredFile, error)
}
