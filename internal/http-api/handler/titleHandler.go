package handler

import (
	"net/http"
	"strconv"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
	"yamdb/internal/policy"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	svc      service.TitleService
	pageSize int
}

func NewTitleHandler(svc service.TitleService, pageSize int) *TitleHandler {
	return &TitleHandler{svc: svc, pageSize: pageSize}
}

func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	titles := rg.Group("/titles")
	{
		titles.GET("", h.List)
		titles.POST("", h.Create)
		titles.GET("/:title_id", h.Get)
		titles.PATCH("/:title_id", h.Update)
		titles.DELETE("/:title_id", h.Delete)
	}
}

// List titles with their rating
// GET /api/v1/titles?category=&genre=&name=&year=&page=
func (h *TitleHandler) List(c *gin.Context) {
	filter := repository.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, service.NewValidationError("year", "enter a whole number"))
			return
		}
		filter.Year = &year
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageParam(c)
	list, total, err := h.svc.List(ctx, filter, page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, page, h.pageSize)
}

// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	title, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	if !authorize(c, policy.Create, policy.KindTitle) {
		return
	}
	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	title, err := h.svc.Create(ctx, middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, title)
}

// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}
	if !authorize(c, policy.Update, policy.KindTitle) {
		return
	}
	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	title, err := h.svc.Update(ctx, middleware.CurrentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
