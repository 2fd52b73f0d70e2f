package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/service"
	"yamdb/internal/policy"

	"github.com/gin-gonic/gin"
)

// CategoryHandler and GenreHandler expose the same list/create/delete surface.
type CategoryHandler struct {
	svc      service.CategoryService
	pageSize int
}

func NewCategoryHandler(svc service.CategoryService, pageSize int) *CategoryHandler {
	return &CategoryHandler{svc: svc, pageSize: pageSize}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.List)
	rg.POST("/categories", h.Create)
	rg.DELETE("/categories/:slug", h.Delete)
}

// GET /api/v1/categories?search=
func (h *CategoryHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageParam(c)
	list, total, err := h.svc.List(ctx, c.Query("search"), page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, page, h.pageSize)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	if !authorize(c, policy.Create, policy.KindCategory) {
		return
	}
	var req dto.CreateSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	created, err := h.svc.Create(ctx, middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.CurrentActor(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type GenreHandler struct {
	svc      service.GenreService
	pageSize int
}

func NewGenreHandler(svc service.GenreService, pageSize int) *GenreHandler {
	return &GenreHandler{svc: svc, pageSize: pageSize}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/genres", h.List)
	rg.POST("/genres", h.Create)
	rg.DELETE("/genres/:slug", h.Delete)
}

// GET /api/v1/genres?search=
func (h *GenreHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageParam(c)
	list, total, err := h.svc.List(ctx, c.Query("search"), page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, page, h.pageSize)
}

func (h *GenreHandler) Create(c *gin.Context) {
	if !authorize(c, policy.Create, policy.KindGenre) {
		return
	}
	var req dto.CreateSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	created, err := h.svc.Create(ctx, middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *GenreHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.CurrentActor(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
