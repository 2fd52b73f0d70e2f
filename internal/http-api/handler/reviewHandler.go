package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/service"
	"yamdb/internal/policy"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc      service.ReviewService
	pageSize int
}

func NewReviewHandler(svc service.ReviewService, pageSize int) *ReviewHandler {
	return &ReviewHandler{svc: svc, pageSize: pageSize}
}

// RegisterRoutes registers review routes, nested under a title
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/titles/:title_id/reviews")
	{
		reviews.GET("", h.List)
		reviews.POST("", h.Create)
		reviews.GET("/:review_id", h.Get)
		reviews.PATCH("/:review_id", h.Update)
		reviews.DELETE("/:review_id", h.Delete)
	}
}

// GET /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageParam(c)
	list, total, err := h.svc.List(ctx, titleID, page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, page, h.pageSize)
}

// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	id, ok := pathID(c, "review_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.svc.Get(ctx, titleID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Create posts the caller's review; one per title
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	if !authorize(c, policy.Create, policy.KindReview) {
		return
	}
	var req dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.svc.Create(ctx, middleware.CurrentActor(c), titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Update edits a review (author, moderator or admin)
// PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	id, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	if !requireActor(c) {
		return
	}
	var req dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	review, err := h.svc.Update(ctx, middleware.CurrentActor(c), titleID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	id, ok := pathID(c, "review_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.CurrentActor(c), titleID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
