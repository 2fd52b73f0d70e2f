package dto

import (
	"time"

	"yamdb/internal/http-api/models"
)

// CreateReviewDTO for posting a review on a title
type CreateReviewDTO struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

// UpdateReviewDTO for a partial review edit
type UpdateReviewDTO struct {
	Text  *string `json:"text" binding:"omitempty,min=1"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

// ReviewResponse renders the author by username
type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func FromModelToReviewResponse(r *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.Username,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}
