package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/repository"
	"github.com/google/uuid"
)

type FileUsecase struct {
	storage repository.FileStorage
	baseURL string
}

// NewFileUsecase serves uploads back under baseURL + "/file/<name>".
func NewFileUsecase(storage repository.FileStorage, baseURL string) *FileUsecase {
	return &FileUsecase{storage: storage, baseURL: strings.TrimRight(baseURL, "/")}
}

type UploadResult struct {
	Name string
	URL  string
}

// Upload stores r under a fresh random name, keeping only the original
// extension.
func (u *FileUsecase) Upload(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (*UploadResult, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if err := u.storage.Save(ctx, name, r, size, contentType); err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}
	return &UploadResult{Name: name, URL: u.baseURL + "/file/" + name}, nil
}

func (u *FileUsecase) Open(ctx context.Context, name string) (*domain.StoredFile, error) {
	if !ValidFileName(name) {
		return nil, domain.ErrNotFound
	}
	f, err := u.storage.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// ValidFileName rejects anything that could escape the storage root.
func ValidFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return path.Base(name) == name
}
