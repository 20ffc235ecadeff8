package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	userKey = "user"

	errUnauthorized   = "Unauthorized"
	errForbidden      = "Missing permissions"
	errInternalServer = "Internal server error"
)

// authenticator is the subset of usecase.Gate the middleware needs.
type authenticator interface {
	AuthenticateRequired(ctx context.Context, raw string, typ domain.TokenType) (*domain.User, error)
	AuthenticateOptional(ctx context.Context, raw string, typ domain.TokenType) (*domain.User, error)
}

// Auth resolves the access token (bearer header or cookie) to a user and
// stores it on the gin context. Requests without a valid token get 401.
func Auth(gate authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := gate.AuthenticateRequired(c.Request.Context(), Token(c, AccessCookie), domain.TokenAccess)
		if err != nil {
			abortAuth(c, logger, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through. A token that is present must
// still be valid, and an Authorization header in any scheme but Bearer is
// rejected rather than read as anonymous.
func OptionalAuth(gate authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !bearerOrAbsent(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		user, err := gate.AuthenticateOptional(c.Request.Context(), Token(c, AccessCookie), domain.TokenAccess)
		if err != nil {
			abortAuth(c, logger, err)
			return
		}
		if user != nil {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := usecase.RequireAdmin(CurrentUser(c)); err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errForbidden})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// Token reads the bearer token from the Authorization header, falling back
// to the named cookie.
func Token(c *gin.Context, cookie string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if tok, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	tok, _ := c.Cookie(cookie)
	return tok
}

func bearerOrAbsent(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	return header == "" || strings.HasPrefix(header, "Bearer ")
}

func abortAuth(c *gin.Context, logger *slog.Logger, err error) {
	if errors.Is(err, domain.ErrUnauthorized) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}
	logger.ErrorContext(c.Request.Context(), "authenticate request", "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}
