package handler_test

import (
	"net/http"
	"testing"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/handler"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListTitles_Filters(t *testing.T) {
	svc := new(MockTitleService)
	year := 1999
	filter := repository.TitleFilter{CategorySlug: "film", GenreSlug: "drama", Name: "mat", Year: &year}
	rating := 7.5
	svc.On("List", mock.Anything, filter, 1, 10).
		Return([]dto.TitleResponse{{ID: 1, Name: "The Matrix", Year: 1999, Rating: &rating, Genre: []dto.GenreResponse{}}}, int64(1), nil)
	r := setupRouter(handler.NewTitleHandler(svc, 10))

	w := doRequest(t, r, http.MethodGet, "/api/v1/titles?category=film&genre=drama&name=mat&year=1999", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Nil(t, body["next"])
	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, 7.5, results[0].(map[string]any)["rating"])
	svc.AssertExpectations(t)
}

func TestListTitles_BadYear(t *testing.T) {
	svc := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(svc, 10))

	w := doRequest(t, r, http.MethodGet, "/api/v1/titles?year=abc", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "year")
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTitle_NoReviewsHasNullRating(t *testing.T) {
	svc := new(MockTitleService)
	svc.On("Get", mock.Anything, int64(3)).Return(&dto.TitleResponse{ID: 3, Name: "Quiet", Genre: []dto.GenreResponse{}}, nil)
	r := setupRouter(handler.NewTitleHandler(svc, 10))

	w := doRequest(t, r, http.MethodGet, "/api/v1/titles/3", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Contains(t, body, "rating")
	assert.Nil(t, body["rating"])
}

func TestCreateTitle_Authorization(t *testing.T) {
	svc := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(svc, 10))
	req := dto.CreateTitleRequest{Name: "X", Year: intPtr(2000), Genre: []string{"drama"}, Category: "film"}

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, r, http.MethodPost, "/api/v1/titles", "", req).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, r, http.MethodPost, "/api/v1/titles", aliceToken, req).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, r, http.MethodPost, "/api/v1/titles", modToken, req).Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTitle_MissingFields(t *testing.T) {
	svc := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(svc, 10))

	w := doRequest(t, r, http.MethodPost, "/api/v1/titles", adminToken, map[string]any{"name": "X"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	for _, field := range []string{"year", "genre", "category"} {
		assert.Equal(t, []any{"this field is required"}, body[field], field)
	}
}

func TestCreateTitle_UnknownSlug(t *testing.T) {
	svc := new(MockTitleService)
	vErr := service.NewValidationError("category", "object with slug=nope does not exist")
	svc.On("Create", mock.Anything, actorIs("admin-id"), mock.Anything).Return(nil, vErr)
	r := setupRouter(handler.NewTitleHandler(svc, 10))

	w := doRequest(t, r, http.MethodPost, "/api/v1/titles", adminToken,
		dto.CreateTitleRequest{Name: "X", Year: intPtr(2000), Genre: []string{"drama"}, Category: "nope"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"object with slug=nope does not exist"}, decode(t, w)["category"])
}

func TestDeleteTitle(t *testing.T) {
	svc := new(MockTitleService)
	svc.On("Delete", mock.Anything, actorIs("admin-id"), int64(4)).Return(nil)
	svc.On("Delete", mock.Anything, actorIs("admin-id"), int64(5)).Return(service.ErrTitleNotFound)
	r := setupRouter(handler.NewTitleHandler(svc, 10))

	assert.Equal(t, http.StatusNoContent, doRequest(t, r, http.MethodDelete, "/api/v1/titles/4", adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, r, http.MethodDelete, "/api/v1/titles/5", adminToken, nil).Code)
}
