package dto

import "yamdb/internal/http-api/models"

// CreateTitleRequest references category and genres by slug
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"required"`
	Category    string   `json:"category" binding:"required"`
}

// UpdateTitleRequest is a partial update. A present genre list, even an empty
// one, replaces the title's genres.
type UpdateTitleRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=256"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre"`
	Category    *string  `json:"category" binding:"omitempty,min=1"`
}

type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func FromModelToTitleResponse(t *models.Title) *TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for i := range t.Genres {
		genres = append(genres, FromModelToGenreResponse(&t.Genres[i]))
	}
	return &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       genres,
		Category:    FromModelToCategoryResponse(t.Category),
	}
}
