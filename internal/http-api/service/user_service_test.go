package service

import (
	"context"
	"errors"
	"testing"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/logger"
	"yamdb/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUsers_AdminOnly(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, logger.Discard())

	_, _, err := svc.List(context.Background(), moderator, "", 1, 10)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	_, err = svc.Get(context.Background(), nil, "alice")
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)

	staff := &policy.Actor{UserID: "s", Role: models.RoleUser, IsStaff: true}
	repo.On("List", mock.Anything, "", 1, 10).Return([]models.User{{Username: "alice"}}, int64(1), nil)
	list, total, err := svc.List(context.Background(), staff, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "alice", list[0].Username)
}

func TestCreateUser_DefaultsRoleAndMapsConflicts(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, logger.Discard())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool { return u.Username == "carol" })).Return(nil).Once()
	resp, err := svc.Create(context.Background(), admin, dto.CreateUserRequest{Username: "carol", Email: "c@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.Role)

	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail).Once()
	_, err = svc.Create(context.Background(), admin, dto.CreateUserRequest{Username: "dave", Email: "c@example.com"})
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "email")
}

func TestUpdateMe_IgnoresRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, logger.Discard())

	repo.On("FindByID", mock.Anything, alice.UserID).
		Return(&models.User{ID: alice.UserID, Username: "alice", Role: models.RoleUser}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleUser && u.Bio == "hi"
	})).Return(nil)

	resp, err := svc.UpdateMe(context.Background(), alice, dto.UpdateUserRequest{
		Bio:  stringPtr("hi"),
		Role: stringPtr(models.RoleAdmin),
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.Role)
	repo.AssertExpectations(t)
}

func TestAdminUpdate_ChangesRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, logger.Discard())

	repo.On("FindByUsername", mock.Anything, "alice").Return(&models.User{ID: alice.UserID, Username: "alice", Role: models.RoleUser}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Update(context.Background(), admin, "alice", dto.UpdateUserRequest{Role: stringPtr(models.RoleModerator)})

	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, resp.Role)
}

func TestDeleteUser_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, logger.Discard())
	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), admin, "ghost"), ErrUserNotFound)
}

func TestGetMe_RequiresAuth(t *testing.T) {
	svc := NewUserService(new(MockUserRepository), logger.Discard())
	_, err := svc.GetMe(context.Background(), nil)
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}
