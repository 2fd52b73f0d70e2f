// Package httpapi assembles the gin engine serving /api/v1.
package httpapi

import (
	"log/slog"
	"net/http"

	"yamdb/internal/http-api/handler"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/service"
	"yamdb/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services and settings the router wires into handlers.
type Dependencies struct {
	Auth       service.AuthService
	Users      service.UserService
	Categories service.CategoryService
	Genres     service.GenreService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService

	// AuthLimiter throttles /auth; nil disables throttling.
	AuthLimiter    middleware.Limiter
	PageSize       int
	// TrustedProxies may set X-Forwarded-For; nil trusts none
	TrustedProxies []string
	MetricsEnabled bool
	Logger         *slog.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Logger.Error("invalid_trusted_proxies", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))

	if deps.MetricsEnabled {
		r.Use(metrics.Middleware())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(middleware.RateLimit(deps.AuthLimiter, deps.Logger))
	}
	handler.NewAuthHandler(deps.Auth).RegisterRoutes(authGroup)

	// content reads are public, the policy decides the rest
	content := api.Group("")
	content.Use(middleware.OptionalAuth(deps.Auth))
	handler.NewCategoryHandler(deps.Categories, deps.PageSize).RegisterRoutes(content)
	handler.NewGenreHandler(deps.Genres, deps.PageSize).RegisterRoutes(content)
	handler.NewTitleHandler(deps.Titles, deps.PageSize).RegisterRoutes(content)
	handler.NewReviewHandler(deps.Reviews, deps.PageSize).RegisterRoutes(content)
	handler.NewCommentHandler(deps.Comments, deps.PageSize).RegisterRoutes(content)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Auth))
	handler.NewUserHandler(deps.Users, deps.PageSize).RegisterRoutes(protected)

	return r
}
