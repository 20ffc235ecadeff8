package usecase_test

import (
	"context"
	"testing"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePersonalInfoRepo struct {
	items map[int64]*domain.PersonalInformation
	next  int64
}

func (f *fakePersonalInfoRepo) ListByUser(_ context.Context, userID int64) ([]*domain.PersonalInformation, error) {
	var out []*domain.PersonalInformation
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakePersonalInfoRepo) Get(_ context.Context, id, userID int64) (*domain.PersonalInformation, error) {
	it, ok := f.items[id]
	if !ok || it.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

func (f *fakePersonalInfoRepo) Create(_ context.Context, p *domain.PersonalInformation) (*domain.PersonalInformation, error) {
	if p.PostID != 1 {
		return nil, domain.ErrNotFound
	}
	f.next++
	cp := *p
	cp.ID = f.next
	f.items[cp.ID] = &cp
	return &cp, nil
}

func (f *fakePersonalInfoRepo) UpdateContent(ctx context.Context, id, userID int64, content *string) (*domain.PersonalInformation, error) {
	it, err := f.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	it.Content = content
	return it, nil
}

func (f *fakePersonalInfoRepo) Delete(ctx context.Context, id, userID int64) error {
	if _, err := f.Get(ctx, id, userID); err != nil {
		return err
	}
	delete(f.items, id)
	return nil
}

func TestPersonalInformation_ScopedToOwner(t *testing.T) {
	repo := &fakePersonalInfoRepo{items: map[int64]*domain.PersonalInformation{}}
	uc := usecase.NewPersonalInformationUsecase(repo)
	ctx := context.Background()
	alice := &domain.User{ID: 1}
	bob := &domain.User{ID: 2}

	note := "remember the tram"
	item, err := uc.Create(ctx, alice, usecase.CreatePersonalInformationInput{
		PostID:      1,
		ContentType: domain.InfoNote,
		Content:     &note,
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, item.UserID)

	_, err = uc.Get(ctx, bob, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, bob, item.ID), domain.ErrNotFound)

	edited := "take bus 12"
	updated, err := uc.Update(ctx, alice, item.ID, &edited)
	require.NoError(t, err)
	assert.Equal(t, edited, *updated.Content)

	items, err := uc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, uc.Delete(ctx, alice, item.ID))
	items, err = uc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPersonalInformation_UnknownPost(t *testing.T) {
	repo := &fakePersonalInfoRepo{items: map[int64]*domain.PersonalInformation{}}
	uc := usecase.NewPersonalInformationUsecase(repo)

	_, err := uc.Create(context.Background(), &domain.User{ID: 1}, usecase.CreatePersonalInformationInput{
		PostID:      99,
		ContentType: domain.InfoBookmark,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
