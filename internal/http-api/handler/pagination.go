package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"yamdb/internal/http-api/dto"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// pageParam reads ?page=N; anything that is not a positive integer means page 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// absoluteURL rebuilds the URL the client used, honoring a TLS-terminating proxy.
func absoluteURL(c *gin.Context) *url.URL {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	switch proto := strings.ToLower(c.GetHeader("X-Forwarded-Proto")); proto {
	case "http", "https":
		scheme = proto
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
	}
}

func respondPage[T any](c *gin.Context, items []T, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewPage(absoluteURL(c), items, total, page, pageSize))
}

// pathID parses a numeric path segment; a non-numeric value matches no resource.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
		return 0, false
	}
	return id, true
}
