package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/service"
	"yamdb/internal/policy"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	pageSize    int
}

func NewUserHandler(userService service.UserService, pageSize int) *UserHandler {
	return &UserHandler{userService: userService, pageSize: pageSize}
}

// RegisterRoutes expects an authenticated group
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.PATCH("/me", h.UpdateMe)

		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:username", h.Get)
		users.PATCH("/:username", h.Update)
		users.DELETE("/:username", h.Delete)
	}
}

// List users, ?search= matches a username exactly
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	page := pageParam(c)
	list, total, err := h.userService.List(ctx, middleware.CurrentActor(c), c.Query("search"), page, h.pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, list, total, page, h.pageSize)
}

// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	if !authorize(c, policy.Create, policy.KindUser) {
		return
	}
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.Create(ctx, middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.Get(ctx, middleware.CurrentActor(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	if !authorize(c, policy.Update, policy.KindUser) {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.Update(ctx, middleware.CurrentActor(c), c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.userService.Delete(ctx, middleware.CurrentActor(c), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.GetMe(ctx, middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /api/v1/users/me, the role field is ignored
func (h *UserHandler) UpdateMe(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := h.userService.UpdateMe(ctx, middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
