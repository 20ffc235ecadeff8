package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/repository"
)

// PersonalInformationUsecase manages a user's own annotations on posts.
type PersonalInformationUsecase struct {
	infos repository.PersonalInformationRepository
}

func NewPersonalInformationUsecase(infos repository.PersonalInformationRepository) *PersonalInformationUsecase {
	return &PersonalInformationUsecase{infos: infos}
}

func (u *PersonalInformationUsecase) List(ctx context.Context, user *domain.User) ([]*domain.PersonalInformation, error) {
	items, err := u.infos.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list personal information: %w", err)
	}
	return items, nil
}

func (u *PersonalInformationUsecase) Get(ctx context.Context, user *domain.User, id int64) (*domain.PersonalInformation, error) {
	item, err := u.infos.Get(ctx, id, user.ID)
	if err != nil {
		return nil, fmt.Errorf("get personal information: %w", err)
	}
	return item, nil
}

// Create attaches an entry to a post. A missing post surfaces as
// domain.ErrNotFound from the repository.
type CreatePersonalInformationInput struct {
	PostID      int64
	ContentType domain.PersonalInformationType
	Content     *string
}

func (u *PersonalInformationUsecase) Create(ctx context.Context, user *domain.User, in CreatePersonalInformationInput) (*domain.PersonalInformation, error) {
	item, err := u.infos.Create(ctx, &domain.PersonalInformation{
		PostID:      in.PostID,
		UserID:      user.ID,
		ContentType: in.ContentType,
		Content:     in.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("create personal information: %w", err)
	}
	return item, nil
}

func (u *PersonalInformationUsecase) Update(ctx context.Context, user *domain.User, id int64, content *string) (*domain.PersonalInformation, error) {
	item, err := u.infos.UpdateContent(ctx, id, user.ID, content)
	if err != nil {
		return nil, fmt.Errorf("update personal information: %w", err)
	}
	return item, nil
}

func (u *PersonalInformationUsecase) Delete(ctx context.Context, user *domain.User, id int64) error {
	if err := u.infos.Delete(ctx, id, user.ID); err != nil {
		return fmt.Errorf("delete personal information: %w", err)
	}
	return nil
}
