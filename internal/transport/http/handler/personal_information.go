package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type personalInformationUsecaser interface {
	List(ctx context.Context, user *domain.User) ([]*domain.PersonalInformation, error)
	Get(ctx context.Context, user *domain.User, id int64) (*domain.PersonalInformation, error)
	Create(ctx context.Context, user *domain.User, in usecase.CreatePersonalInformationInput) (*domain.PersonalInformation, error)
	Update(ctx context.Context, user *domain.User, id int64, content *string) (*domain.PersonalInformation, error)
	Delete(ctx context.Context, user *domain.User, id int64) error
}

// PersonalInformationHandler serves /me/personal-information. Every route
// sits behind Auth, so CurrentUser is never nil here.
type PersonalInformationHandler struct {
	infos  personalInformationUsecaser
	logger *slog.Logger
}

func NewPersonalInformationHandler(infos personalInformationUsecaser, logger *slog.Logger) *PersonalInformationHandler {
	return &PersonalInformationHandler{infos: infos, logger: logger.With("component", "personal_information_handler")}
}

type personalInformationResponse struct {
	ID          int64                          `json:"id"`
	PostID      int64                          `json:"post_id"`
	ContentType domain.PersonalInformationType `json:"content_type"`
	Content     *string                        `json:"content"`
}

func toPersonalInformationResponse(p *domain.PersonalInformation) personalInformationResponse {
	return personalInformationResponse{ID: p.ID, PostID: p.PostID, ContentType: p.ContentType, Content: p.Content}
}

type createPersonalInformationRequest struct {
	PostID      int64                          `json:"post_id"      binding:"required,min=1"`
	ContentType domain.PersonalInformationType `json:"content_type" binding:"required,oneof=note answer bookmark"`
	Content     *string                        `json:"content"`
}

type updatePersonalInformationRequest struct {
	Content *string `json:"content"`
}

func (h *PersonalInformationHandler) List(c *gin.Context) {
	items, err := h.infos.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, "list personal information", err)
		return
	}
	resp := make([]personalInformationResponse, len(items))
	for i, it := range items {
		resp[i] = toPersonalInformationResponse(it)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PersonalInformationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	it, err := h.infos.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, "get personal information", err)
		return
	}
	c.JSON(http.StatusOK, toPersonalInformationResponse(it))
}

func (h *PersonalInformationHandler) Create(c *gin.Context) {
	var req createPersonalInformationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	it, err := h.infos.Create(c.Request.Context(), middleware.CurrentUser(c), usecase.CreatePersonalInformationInput{
		PostID:      req.PostID,
		ContentType: req.ContentType,
		Content:     req.Content,
	})
	if err != nil {
		respondError(c, h.logger, "create personal information", err)
		return
	}
	c.JSON(http.StatusCreated, toPersonalInformationResponse(it))
}

func (h *PersonalInformationHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updatePersonalInformationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	it, err := h.infos.Update(c.Request.Context(), middleware.CurrentUser(c), id, req.Content)
	if err != nil {
		respondError(c, h.logger, "update personal information", err)
		return
	}
	c.JSON(http.StatusOK, toPersonalInformationResponse(it))
}

func (h *PersonalInformationHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.infos.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.logger, "delete personal information", err)
		return
	}
	c.Status(http.StatusNoContent)
}
