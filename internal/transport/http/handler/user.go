package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type userUsecaser interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, afterID int64, limit int) (*usecase.ListUsersResult, error)
	ChangeName(ctx context.Context, user *domain.User, name string) (*domain.User, error)
}

// registerer creates accounts; admins use it to add users directly.
type registerer interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*domain.User, error)
}

type UserHandler struct {
	users    userUsecaser
	register registerer
	logger   *slog.Logger
}

func NewUserHandler(users userUsecaser, register registerer, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, register: register, logger: logger.With("component", "user_handler")}
}

type userResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	IsVerified bool      `json:"is_verified"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		IsVerified: u.IsVerified,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt,
	}
}

type listUsersResponse struct {
	Users     []userResponse `json:"users"`
	NextAfter *int64         `json:"next_after"`
}

type createUserRequest struct {
	Email    string `json:"email"    binding:"required,email,max=254"`
	Name     string `json:"name"     binding:"max=128"`
	Password string `json:"password" binding:"required,min=8,max=256"`
	IsAdmin  bool   `json:"is_admin"`
}

type changeNameRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

// GET /users?after=<id>&limit=<n>
func (h *UserHandler) List(c *gin.Context) {
	after, _ := strconv.ParseInt(c.Query("after"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	res, err := h.users.ListUsers(c.Request.Context(), after, limit)
	if err != nil {
		respondError(c, h.logger, "list users", err)
		return
	}

	resp := listUsersResponse{Users: make([]userResponse, len(res.Users))}
	for i, u := range res.Users {
		resp.Users[i] = toUserResponse(u)
	}
	if res.NextAfter != 0 {
		resp.NextAfter = &res.NextAfter
	}
	c.JSON(http.StatusOK, resp)
}

// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.register.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		respondError(c, h.logger, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(middleware.CurrentUser(c)))
}

// PATCH /users/me/name
func (h *UserHandler) ChangeName(c *gin.Context) {
	var req changeNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingArguments})
		return
	}

	user, err := h.users.ChangeName(c.Request.Context(), middleware.CurrentUser(c), req.Name)
	if err != nil {
		respondError(c, h.logger, "change name", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get user", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// paramID parses a positive int64 path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return 0, false
	}
	return id, true
}
