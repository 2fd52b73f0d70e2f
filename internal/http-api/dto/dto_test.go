package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/internal/http-api/models"
)

func TestFromModelToTitleResponse_Shape(t *testing.T) {
	rating := 7.5
	title := &models.Title{
		ID:       3,
		Name:     "Solaris",
		Year:     1972,
		Rating:   &rating,
		Category: &models.Category{ID: 1, Name: "Film", Slug: "film"},
		Genres:   []models.Genre{{ID: 2, Name: "Drama", Slug: "drama"}},
	}

	raw, err := json.Marshal(FromModelToTitleResponse(title))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 7.5, got["rating"])
	assert.Equal(t, map[string]any{"name": "Film", "slug": "film"}, got["category"])
	assert.Equal(t, []any{map[string]any{"name": "Drama", "slug": "drama"}}, got["genre"])
}

func TestFromModelToTitleResponse_NoReviewsNoCategory(t *testing.T) {
	raw, err := json.Marshal(FromModelToTitleResponse(&models.Title{ID: 1, Name: "Untitled", Year: 2000}))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Contains(t, got, "rating")
	assert.Nil(t, got["rating"])
	assert.Nil(t, got["category"])
	assert.Equal(t, []any{}, got["genre"])
}

func TestFromModelToReviewResponse_AuthorIsUsername(t *testing.T) {
	r := &models.Review{ID: 9, Text: "great", Score: 9, Author: models.User{ID: "u1", Username: "alice"}}
	assert.Equal(t, "alice", FromModelToReviewResponse(r).Author)
}
