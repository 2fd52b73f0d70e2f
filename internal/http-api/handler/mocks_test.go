package handler_test

import (
	"context"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
	"yamdb/internal/policy"

	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SignupResponse), args.Error(1)
}

func (m *MockAuthService) GetToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, actor *policy.Actor, search string, page, pageSize int) ([]dto.UserResponse, int64, error) {
	args := m.Called(ctx, actor, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]dto.UserResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, actor *policy.Actor, username string) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, actor *policy.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, actor *policy.Actor, username string) error {
	args := m.Called(ctx, actor, username)
	return args.Error(0)
}

func (m *MockUserService) GetMe(ctx context.Context, actor *policy.Actor) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) UpdateMe(ctx context.Context, actor *policy.Actor, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, search string, page, pageSize int) ([]dto.CategoryResponse, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	return args.Get(0).([]dto.CategoryResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateSlugRequest) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, actor *policy.Actor, slug string) error {
	args := m.Called(ctx, actor, slug)
	return args.Error(0)
}

type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]dto.TitleResponse, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]dto.TitleResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, titleID int64, page, pageSize int) ([]dto.ReviewResponse, int64, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]dto.ReviewResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, id int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, actor *policy.Actor, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, actor *policy.Actor, titleID, id int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, actor *policy.Actor, titleID, id int64) error {
	args := m.Called(ctx, actor, titleID, id)
	return args.Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]dto.CommentResponse, int64, error) {
	args := m.Called(ctx, titleID, reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]dto.CommentResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentService) Get(ctx context.Context, titleID, reviewID, id int64) (*dto.CommentResponse, error) {
	args := m.Called(ctx, titleID, reviewID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, actor *policy.Actor, titleID, reviewID int64, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, actor *policy.Actor, titleID, reviewID, id int64, req dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, actor *policy.Actor, titleID, reviewID, id int64) error {
	args := m.Called(ctx, actor, titleID, reviewID, id)
	return args.Error(0)
}

type MockGenreService struct {
	mock.Mock
}

func (m *MockGenreService) List(ctx context.Context, search string, page, pageSize int) ([]dto.GenreResponse, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	return args.Get(0).([]dto.GenreResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockGenreService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateSlugRequest) (*dto.GenreResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenreResponse), args.Error(1)
}

func (m *MockGenreService) Delete(ctx context.Context, actor *policy.Actor, slug string) error {
	args := m.Called(ctx, actor, slug)
	return args.Error(0)
}
