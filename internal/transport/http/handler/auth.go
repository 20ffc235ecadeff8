package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*domain.User, error)
	ResendVerification(ctx context.Context, userID int64) error
	VerifyEmail(ctx context.Context, token string) error
	SignIn(ctx context.Context, email, password string, asAdmin bool) (*domain.User, *domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (domain.IssuedToken, error)
	RequestEmailChange(ctx context.Context, requester *domain.User, newEmail string) error
	ChangeEmail(ctx context.Context, token string) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, requester *domain.User, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type AuthHandler struct {
	authUsecase  authUsecaser
	cookieSecure bool
	logger       *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		cookieSecure: cookieSecure,
		logger:       logger.With("component", "auth_handler"),
	}
}

type signupRequest struct {
	Email    string `json:"email"    binding:"required,email,max=254"`
	Name     string `json:"name"     binding:"max=128"`
	Password string `json:"password" binding:"required,min=8,max=256"`
}

type signinRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

type optionalEmailRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

type changePasswordRequest struct {
	Token    string `json:"token"    binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=256"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	AccessTTL    int64  `json:"access_ttl"`
	RefreshToken string `json:"refresh_token,omitempty"`
	RefreshTTL   int64  `json:"refresh_ttl,omitempty"`
	TokenType    string `json:"token_type"`
}

// POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, "signup", err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// GET /auth/resend/:user_id
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return
	}

	if err := h.authUsecase.ResendVerification(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, "resend verification", err)
		return
	}
	c.Status(http.StatusAccepted)
}

// POST /auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authUsecase.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		respondError(c, h.logger, "verify email", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /auth/signin?as_admin=true
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	asAdmin, _ := strconv.ParseBool(c.Query("as_admin"))

	_, pair, err := h.authUsecase.SignIn(c.Request.Context(), req.Email, req.Password, asAdmin)
	if err != nil {
		respondError(c, h.logger, "signin", err)
		return
	}

	h.setCookie(c, middleware.AccessCookie, pair.Access)
	h.setCookie(c, middleware.RefreshCookie, pair.Refresh)
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  pair.Access.Token,
		AccessTTL:    pair.Access.TTL,
		RefreshToken: pair.Refresh.Token,
		RefreshTTL:   pair.Refresh.TTL,
		TokenType:    "Bearer",
	})
}

// POST /auth/refresh
// The refresh token comes from the bearer header or the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw := middleware.Token(c, middleware.RefreshCookie)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return
	}

	access, err := h.authUsecase.Refresh(c.Request.Context(), raw)
	if err != nil {
		respondError(c, h.logger, "refresh", err)
		return
	}

	h.setCookie(c, middleware.AccessCookie, access)
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: access.Token,
		AccessTTL:   access.TTL,
		TokenType:   "Bearer",
	})
}

// POST /auth/signout
// Sessions are stateless; clearing the cookies is all there is to do.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.clearCookie(c, middleware.AccessCookie)
	h.clearCookie(c, middleware.RefreshCookie)
	c.Status(http.StatusNoContent)
}

// POST /auth/request-email-change
func (h *AuthHandler) RequestEmailChange(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authUsecase.RequestEmailChange(c.Request.Context(), middleware.CurrentUser(c), req.Email); err != nil {
		respondError(c, h.logger, "request email change", err)
		return
	}
	c.Status(http.StatusAccepted)
}

// POST /auth/change-email
func (h *AuthHandler) ChangeEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authUsecase.ChangeEmail(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, h.logger, "change email", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// POST /auth/request-password-change
// The body is optional for an authenticated caller.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req optionalEmailRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	if err := h.authUsecase.RequestPasswordReset(c.Request.Context(), middleware.CurrentUser(c), req.Email); err != nil {
		respondError(c, h.logger, "request password reset", err)
		return
	}
	c.Status(http.StatusAccepted)
}

// POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.authUsecase.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, h.logger, "change password", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setCookie(c *gin.Context, name string, tok domain.IssuedToken) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, tok.Token, int(tok.TTL), "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", h.cookieSecure, true)
}
