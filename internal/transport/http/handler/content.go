package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/gin-gonic/gin"
)

type contentUsecaser interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	GetSubCategory(ctx context.Context, id int64) (*domain.SubCategory, error)
	CreateSubCategory(ctx context.Context, categoryID int64, name string) (*domain.SubCategory, error)
	RenameSubCategory(ctx context.Context, id int64, name string) (*domain.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id int64) error

	ViewPost(ctx context.Context, id int64) (*domain.Post, error)
	CreatePost(ctx context.Context, categoryID int64, subCategoryID *int64, content string) (*domain.Post, error)
	UpdatePost(ctx context.Context, id int64, content string) (*domain.Post, error)
	DeletePost(ctx context.Context, id int64) error

	ListMedia(ctx context.Context, mediaType domain.MediaType) ([]*domain.MediaFile, error)
	GetMedia(ctx context.Context, id int64) (*domain.MediaFile, error)
	CreateMedia(ctx context.Context, m *domain.MediaFile) (*domain.MediaFile, error)
	UpdateMedia(ctx context.Context, m *domain.MediaFile) (*domain.MediaFile, error)
	DeleteMedia(ctx context.Context, id int64) error
}

type ContentHandler struct {
	content contentUsecaser
	logger  *slog.Logger
}

func NewContentHandler(content contentUsecaser, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{content: content, logger: logger.With("component", "content_handler")}
}

type postResponse struct {
	ID            int64  `json:"id"`
	CategoryID    int64  `json:"category_id"`
	SubCategoryID *int64 `json:"subcategory_id"`
	Content       string `json:"content"`
	Views         int64  `json:"views"`
}

type subCategoryResponse struct {
	ID         int64         `json:"id"`
	CategoryID int64         `json:"category_id"`
	Name       string        `json:"name"`
	Post       *postResponse `json:"post"`
}

type categoryResponse struct {
	ID            int64                 `json:"id"`
	Name          string                `json:"name"`
	Post          *postResponse         `json:"post,omitempty"`
	SubCategories []subCategoryResponse `json:"subcategories,omitempty"`
}

type mediaResponse struct {
	ID       int64            `json:"id"`
	Type     domain.MediaType `json:"type"`
	FileName *string          `json:"file_name"`
	FileURL  *string          `json:"file_url"`
	Data     *string          `json:"data"`
}

func toPostResponse(p *domain.Post) *postResponse {
	if p == nil {
		return nil
	}
	return &postResponse{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		Content:       p.Content,
		Views:         p.Views,
	}
}

func toSubCategoryResponse(s *domain.SubCategory) subCategoryResponse {
	return subCategoryResponse{ID: s.ID, CategoryID: s.CategoryID, Name: s.Name, Post: toPostResponse(s.Post)}
}

func toCategoryResponse(cat *domain.Category) categoryResponse {
	resp := categoryResponse{ID: cat.ID, Name: cat.Name, Post: toPostResponse(cat.Post)}
	for _, s := range cat.SubCategories {
		resp.SubCategories = append(resp.SubCategories, toSubCategoryResponse(s))
	}
	return resp
}

func toMediaResponse(m *domain.MediaFile) mediaResponse {
	return mediaResponse{ID: m.ID, Type: m.Type, FileName: m.FileName, FileURL: m.FileURL, Data: m.Data}
}

type nameRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

type createSubCategoryRequest struct {
	CategoryID int64  `json:"category_id" binding:"required,min=1"`
	Name       string `json:"name"        binding:"required,max=128"`
}

type createPostRequest struct {
	CategoryID    int64  `json:"category_id"    binding:"required,min=1"`
	SubCategoryID *int64 `json:"subcategory_id" binding:"omitempty,min=1"`
	Content       string `json:"content"`
}

type updatePostRequest struct {
	Content string `json:"content"`
}

type mediaRequest struct {
	Type     domain.MediaType `json:"type"      binding:"required,oneof=image video audio document"`
	FileName *string          `json:"file_name" binding:"omitempty,max=255"`
	FileURL  *string          `json:"file_url"  binding:"omitempty,url"`
	Data     *string          `json:"data"`
}

// Categories

func (h *ContentHandler) ListCategories(c *gin.Context) {
	cs, err := h.content.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list categories", err)
		return
	}
	resp := make([]categoryResponse, len(cs))
	for i, cat := range cs {
		resp[i] = toCategoryResponse(cat)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContentHandler) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cat, err := h.content.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get category", err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(cat))
}

func (h *ContentHandler) CreateCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.content.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, "create category", err)
		return
	}
	c.JSON(http.StatusCreated, toCategoryResponse(cat))
}

func (h *ContentHandler) RenameCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.content.RenameCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, h.logger, "rename category", err)
		return
	}
	c.JSON(http.StatusOK, toCategoryResponse(cat))
}

func (h *ContentHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete category", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subcategories

func (h *ContentHandler) GetSubCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	s, err := h.content.GetSubCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get subcategory", err)
		return
	}
	c.JSON(http.StatusOK, toSubCategoryResponse(s))
}

func (h *ContentHandler) CreateSubCategory(c *gin.Context) {
	var req createSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.content.CreateSubCategory(c.Request.Context(), req.CategoryID, req.Name)
	if err != nil {
		respondError(c, h.logger, "create subcategory", err)
		return
	}
	c.JSON(http.StatusCreated, toSubCategoryResponse(s))
}

func (h *ContentHandler) RenameSubCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.content.RenameSubCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, h.logger, "rename subcategory", err)
		return
	}
	c.JSON(http.StatusOK, toSubCategoryResponse(s))
}

func (h *ContentHandler) DeleteSubCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteSubCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete subcategory", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Posts

// GET /posts/:id counts as a view.
func (h *ContentHandler) GetPost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.content.ViewPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "view post", err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(p))
}

func (h *ContentHandler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.content.CreatePost(c.Request.Context(), req.CategoryID, req.SubCategoryID, req.Content)
	if err != nil {
		respondError(c, h.logger, "create post", err)
		return
	}
	c.JSON(http.StatusCreated, toPostResponse(p))
}

func (h *ContentHandler) UpdatePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.content.UpdatePost(c.Request.Context(), id, req.Content)
	if err != nil {
		respondError(c, h.logger, "update post", err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(p))
}

func (h *ContentHandler) DeletePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeletePost(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete post", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Media

// GET /media?type=image
func (h *ContentHandler) ListMedia(c *gin.Context) {
	mediaType := domain.MediaType(c.Query("type"))
	switch mediaType {
	case "", domain.MediaImage, domain.MediaVideo, domain.MediaAudio, domain.MediaDocument:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media type"})
		return
	}

	ms, err := h.content.ListMedia(c.Request.Context(), mediaType)
	if err != nil {
		respondError(c, h.logger, "list media", err)
		return
	}
	resp := make([]mediaResponse, len(ms))
	for i, m := range ms {
		resp[i] = toMediaResponse(m)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ContentHandler) GetMedia(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := h.content.GetMedia(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get media", err)
		return
	}
	c.JSON(http.StatusOK, toMediaResponse(m))
}

func (h *ContentHandler) CreateMedia(c *gin.Context) {
	var req mediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := h.content.CreateMedia(c.Request.Context(), &domain.MediaFile{
		Type:     req.Type,
		FileName: req.FileName,
		FileURL:  req.FileURL,
		Data:     req.Data,
	})
	if err != nil {
		respondError(c, h.logger, "create media", err)
		return
	}
	c.JSON(http.StatusCreated, toMediaResponse(m))
}

func (h *ContentHandler) UpdateMedia(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req mediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := h.content.UpdateMedia(c.Request.Context(), &domain.MediaFile{
		ID:       id,
		Type:     req.Type,
		FileName: req.FileName,
		FileURL:  req.FileURL,
		Data:     req.Data,
	})
	if err != nil {
		respondError(c, h.logger, "update media", err)
		return
	}
	c.JSON(http.StatusOK, toMediaResponse(m))
}

func (h *ContentHandler) DeleteMedia(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteMedia(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete media", err)
		return
	}
	c.Status(http.StatusNoContent)
}
