package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokens understood by newAuthMock
const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
	modToken   = "mod-token"
	adminToken = "admin-token"
)

var (
	aliceUser = &models.User{ID: "alice-id", Username: "alice", Role: models.RoleUser}
	bobUser   = &models.User{ID: "bob-id", Username: "bob", Role: models.RoleUser}
	modUser   = &models.User{ID: "mod-id", Username: "mod", Role: models.RoleModerator}
	adminUser = &models.User{ID: "admin-id", Username: "root", Role: models.RoleAdmin}
)

func newAuthMock() *MockAuthService {
	m := new(MockAuthService)
	m.On("Authenticate", mock.Anything, aliceToken).Return(aliceUser, nil).Maybe()
	m.On("Authenticate", mock.Anything, bobToken).Return(bobUser, nil).Maybe()
	m.On("Authenticate", mock.Anything, modToken).Return(modUser, nil).Maybe()
	m.On("Authenticate", mock.Anything, adminToken).Return(adminUser, nil).Maybe()
	m.On("Authenticate", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidToken).Maybe()
	return m
}

type routes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// setupRouter mounts h under /api/v1 behind optional authentication.
func setupRouter(h routes) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuth(newAuthMock()))
	h.RegisterRoutes(api)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }
