package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ErlanBelekov/guide-api/internal/auth"
	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/metrics"
	"github.com/ErlanBelekov/guide-api/internal/repository"
)

// Mailer delivers the transactional emails. Failures are logged, never
// retried and never fail the calling operation.
type Mailer interface {
	SendVerification(ctx context.Context, user *domain.User, to, token string) error
	SendEmailChange(ctx context.Context, user *domain.User, to, token string) error
	SendPasswordReset(ctx context.Context, user *domain.User, token string) error
}

type TokenTTLs struct {
	Access        time.Duration
	Refresh       time.Duration
	EmailVerify   time.Duration
	EmailChange   time.Duration
	PasswordReset time.Duration
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher *auth.Hasher
	codec  *auth.Codec
	issuer *SessionIssuer
	mailer Mailer
	ttls   TokenTTLs
	logger *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher *auth.Hasher,
	codec *auth.Codec,
	mailer Mailer,
	ttls TokenTTLs,
	logger *slog.Logger,
) (*AuthUsecase, error) {
	issuer, err := NewSessionIssuer(codec, users, ttls.Access, ttls.Refresh)
	if err != nil {
		return nil, err
	}
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		codec:  codec,
		issuer: issuer,
		mailer: mailer,
		ttls:   ttls,
		logger: logger.With("component", "auth_usecase"),
	}, nil
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	IsAdmin  bool
}

// Register creates an unverified user and sends the verification email.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)

	_, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	digest, err := u.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, domain.UserCreate{
		Email:          email,
		Name:           strings.TrimSpace(in.Name),
		HashedPassword: digest,
		IsAdmin:        in.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	u.sendVerification(ctx, user)
	return user, nil
}

func (u *AuthUsecase) ResendVerification(ctx context.Context, userID int64) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}
	u.sendVerification(ctx, user)
	return nil
}

// VerifyEmail consumes an email_verify token. Verifying an already verified
// user succeeds without writing.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) error {
	decoded, err := u.codec.Decode(token, domain.TokenEmailVerify)
	if err != nil {
		return err
	}

	user, err := u.users.FindByID(ctx, decoded.Subject)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user.IsVerified {
		return nil
	}

	verified := true
	if _, err := u.users.Update(ctx, user.ID, domain.UserUpdate{IsVerified: &verified}); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// SignIn checks credentials and issues a session. With asAdmin the user must
// be an admin; that check happens before any token is minted.
func (u *AuthUsecase) SignIn(ctx context.Context, email, password string, asAdmin bool) (*domain.User, *domain.TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			u.hasher.VerifyDummy(ctx, password)
			metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user by email: %w", err)
	}

	if !u.hasher.Verify(ctx, password, user.HashedPassword) {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	if asAdmin {
		if _, err := RequireAdmin(user); err != nil {
			metrics.AuthFailuresTotal.WithLabelValues("not_admin").Inc()
			return nil, nil, err
		}
	}

	pair, err := u.issuer.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (domain.IssuedToken, error) {
	return u.issuer.Refresh(ctx, refreshToken)
}

// RequestEmailChange mails an email_change token to newEmail. The address is
// rejected if the requester already owns it or any other account does.
func (u *AuthUsecase) RequestEmailChange(ctx context.Context, requester *domain.User, newEmail string) error {
	if requester == nil {
		return domain.ErrUnauthorized
	}

	email := normalizeEmail(newEmail)
	if email == "" {
		return domain.ErrMissingArguments
	}
	if email == normalizeEmail(requester.Email) {
		return domain.ErrSameEmail
	}

	owner, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil && owner.ID != requester.ID:
		return domain.ErrEmailTaken
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("find user by email: %w", err)
	}

	token, err := u.codec.Encode(requester.ID, domain.TokenEmailChange, u.ttls.EmailChange, auth.Extra{
		Email:    email,
		EmailTag: auth.EmailTag(requester.Email),
	})
	if err != nil {
		return fmt.Errorf("issue email change token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.TokenEmailChange)).Inc()

	if err := u.mailer.SendEmailChange(ctx, requester, email, token); err != nil {
		u.logger.ErrorContext(ctx, "send email change", "user_id", requester.ID, "error", err)
	}
	return nil
}

// ChangeEmail consumes an email_change token: the address it carries becomes
// the user's verified email. The token is bound to the address the account
// had when it was requested, so it cannot move the email back later.
func (u *AuthUsecase) ChangeEmail(ctx context.Context, token string) (*domain.User, error) {
	decoded, err := u.codec.Decode(token, domain.TokenEmailChange)
	if err != nil {
		return nil, err
	}
	if decoded.Email == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := u.users.FindByID(ctx, decoded.Subject)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Email == decoded.Email && user.IsVerified {
		return user, nil
	}
	if decoded.EmailTag != auth.EmailTag(user.Email) {
		return nil, domain.ErrInvalidToken
	}

	verified := true
	updated, err := u.users.Update(ctx, user.ID, domain.UserUpdate{Email: &decoded.Email, IsVerified: &verified})
	if err != nil {
		return nil, fmt.Errorf("change email: %w", err)
	}
	return updated, nil
}

// RequestPasswordReset targets the account owning email when given,
// otherwise the authenticated requester.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, requester *domain.User, email string) error {
	user := requester
	if email = normalizeEmail(email); email != "" {
		found, err := u.users.FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("find user by email: %w", err)
		}
		user = found
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	token, err := u.codec.Encode(user.ID, domain.TokenPasswordReset, u.ttls.PasswordReset, auth.Extra{
		PasswordTag: auth.PasswordTag(user.HashedPassword),
	})
	if err != nil {
		return fmt.Errorf("issue password reset token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.TokenPasswordReset)).Inc()

	if err := u.mailer.SendPasswordReset(ctx, user, token); err != nil {
		u.logger.ErrorContext(ctx, "send password reset", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword consumes a password_reset token. The token only matches the
// digest it was issued against, so it cannot be replayed after a change.
func (u *AuthUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return domain.ErrMissingArguments
	}

	decoded, err := u.codec.Decode(token, domain.TokenPasswordReset)
	if err != nil {
		return err
	}

	user, err := u.users.FindByID(ctx, decoded.Subject)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if decoded.PasswordTag != auth.PasswordTag(user.HashedPassword) {
		return domain.ErrInvalidToken
	}

	digest, err := u.hasher.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := u.users.Update(ctx, user.ID, domain.UserUpdate{HashedPassword: &digest}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (u *AuthUsecase) sendVerification(ctx context.Context, user *domain.User) {
	token, err := u.codec.Encode(user.ID, domain.TokenEmailVerify, u.ttls.EmailVerify, auth.Extra{})
	if err != nil {
		u.logger.ErrorContext(ctx, "issue verification token", "user_id", user.ID, "error", err)
		return
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.TokenEmailVerify)).Inc()

	if err := u.mailer.SendVerification(ctx, user, user.Email, token); err != nil {
		u.logger.ErrorContext(ctx, "send verification", "user_id", user.ID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
