package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/guide-api/internal/auth"
	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/metrics"
	"github.com/ErlanBelekov/guide-api/internal/repository"
)

// SessionIssuer mints access/refresh pairs. Sessions are the tokens
// themselves; nothing is stored server-side.
type SessionIssuer struct {
	codec      *auth.Codec
	users      repository.UserRepository
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSessionIssuer(codec *auth.Codec, users repository.UserRepository, accessTTL, refreshTTL time.Duration) (*SessionIssuer, error) {
	if accessTTL <= 0 || accessTTL >= refreshTTL {
		return nil, fmt.Errorf("access ttl (%s) must be positive and shorter than refresh ttl (%s)", accessTTL, refreshTTL)
	}
	return &SessionIssuer{
		codec:      codec,
		users:      users,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (s *SessionIssuer) IssuePair(userID int64) (*domain.TokenPair, error) {
	access, err := s.issue(userID, domain.TokenAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(userID, domain.TokenRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh trades a refresh token for a new access token. The refresh token
// itself is not rotated.
func (s *SessionIssuer) Refresh(ctx context.Context, refreshToken string) (domain.IssuedToken, error) {
	decoded, err := s.codec.Decode(refreshToken, domain.TokenRefresh)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
		return domain.IssuedToken{}, err
	}

	user, err := s.users.FindByID(ctx, decoded.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()
			return domain.IssuedToken{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
		}
		return domain.IssuedToken{}, fmt.Errorf("find user: %w", err)
	}

	return s.issue(user.ID, domain.TokenAccess, s.accessTTL)
}

func (s *SessionIssuer) issue(userID int64, typ domain.TokenType, ttl time.Duration) (domain.IssuedToken, error) {
	tok, err := s.codec.Encode(userID, typ, ttl, auth.Extra{})
	if err != nil {
		return domain.IssuedToken{}, fmt.Errorf("issue %s token: %w", typ, err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(typ)).Inc()
	return domain.IssuedToken{Token: tok, TTL: int64(ttl / time.Second)}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired"
	case errors.Is(err, domain.ErrWrongTokenType):
		return "wrong_type"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid"
	case errors.Is(err, domain.ErrUserNotFound):
		return "unknown_user"
	default:
		return "other"
	}
}
