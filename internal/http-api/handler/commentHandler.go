package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/service"
	"yamdb/internal/policy"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
	pageSize       int
}

func NewCommentHandler(commentService service.CommentService, pageSize int) *CommentHandler {
	return &CommentHandler{commentService: commentService, pageSize: pageSize}
}

// RegisterRoutes registers comment routes, nested under a review of a title
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	comments := rg.Group("/titles/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.POST("", h.Create)
		comments.GET("/:comment_id", h.Get)
		comments.PATCH("/:comment_id", h.Update)
		comments.DELETE("/:comment_id", h.Delete)
	}
}

// reviewPath reads the title and review ids shared by every comment route.
func reviewPath(c *gin.Context) (titleID, reviewID int64, ok bool) {
	if titleID, ok = pathID(c, "title_id"); !ok {
		return
	}
	reviewID, ok = pathID(c, "review_id")
	return
}

// GET .../reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageParam(c)
	list, total, err := h.commentService.List(ctx, titleID, reviewID, page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, page, h.pageSize)
}

// GET .../comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.commentService.Get(ctx, titleID, reviewID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// POST .../reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	if !authorize(c, policy.Create, policy.KindComment) {
		return
	}
	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.commentService.Create(ctx, middleware.CurrentActor(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// PATCH .../comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}
	if !requireActor(c) {
		return
	}
	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := h.commentService.Update(ctx, middleware.CurrentActor(c), titleID, reviewID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DELETE .../comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "comment_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.commentService.Delete(ctx, middleware.CurrentActor(c), titleID, reviewID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
