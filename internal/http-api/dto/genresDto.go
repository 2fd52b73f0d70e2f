package dto

import "yamdb/internal/http-api/models"

// CreateSlugRequest creates a category or a genre
type CreateSlugRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToCategoryResponse(c *models.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{Name: c.Name, Slug: c.Slug}
}

func FromModelToGenreResponse(g *models.Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}
