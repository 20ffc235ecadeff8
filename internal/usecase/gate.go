package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/guide-api/internal/auth"
	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/metrics"
	"github.com/ErlanBelekov/guide-api/internal/repository"
)

// Gate resolves inbound tokens to users. It never writes.
type Gate struct {
	codec *auth.Codec
	users repository.UserRepository
}

func NewGate(codec *auth.Codec, users repository.UserRepository) *Gate {
	return &Gate{codec: codec, users: users}
}

// AuthenticateRequired fails with domain.ErrUnauthorized (wrapping the cause)
// unless raw decodes as typ and names an existing user.
func (g *Gate) AuthenticateRequired(ctx context.Context, raw string, typ domain.TokenType) (*domain.User, error) {
	if raw == "" {
		metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
		return nil, domain.ErrUnauthorized
	}
	return g.resolve(ctx, raw, typ)
}

// AuthenticateOptional returns (nil, nil) for anonymous requests. A token that
// is present must still be valid.
func (g *Gate) AuthenticateOptional(ctx context.Context, raw string, typ domain.TokenType) (*domain.User, error) {
	if raw == "" {
		return nil, nil
	}
	return g.resolve(ctx, raw, typ)
}

func (g *Gate) resolve(ctx context.Context, raw string, typ domain.TokenType) (*domain.User, error) {
	decoded, err := g.codec.Decode(raw, typ)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	user, err := g.users.FindByID(ctx, decoded.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// RequireAdmin is only meaningful after authentication; a nil user is
// treated as unauthenticated.
func RequireAdmin(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return user, nil
}
