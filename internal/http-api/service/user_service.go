package service

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/policy"
)

type UserService interface {
	List(ctx context.Context, actor *policy.Actor, search string, page, pageSize int) ([]dto.UserResponse, int64, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, actor *policy.Actor, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, actor *policy.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, username string) error
	GetMe(ctx context.Context, actor *policy.Actor) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, actor *policy.Actor, req dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

func (s *userService) List(ctx context.Context, actor *policy.Actor, search string, page, pageSize int) ([]dto.UserResponse, int64, error) {
	if err := policy.Allow(actor, policy.Read, policy.On(policy.KindUser)); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *dto.FromModelToUserResponse(&users[i]))
	}
	return out, total, nil
}

func (s *userService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := policy.Allow(actor, policy.Create, policy.On(policy.KindUser)); err != nil {
		return nil, err
	}
	if err := ValidateUsername(req.Username); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, userConflict(err)
	}

	s.logger.Info("user_created", "username", user.Username, "role", user.Role, "by", actor.UserID)
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Get(ctx context.Context, actor *policy.Actor, username string) (*dto.UserResponse, error) {
	if err := policy.Allow(actor, policy.Read, policy.On(policy.KindUser)); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, actor *policy.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := policy.Allow(actor, policy.Update, policy.On(policy.KindUser)); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return s.apply(ctx, user, req)
}

func (s *userService) Delete(ctx context.Context, actor *policy.Actor, username string) error {
	if err := policy.Allow(actor, policy.Delete, policy.On(policy.KindUser)); err != nil {
		return err
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	s.logger.Info("user_deleted", "username", user.Username, "by", actor.UserID)
	return nil
}

func (s *userService) GetMe(ctx context.Context, actor *policy.Actor) (*dto.UserResponse, error) {
	if err := policy.Allow(actor, policy.Read, policy.On(policy.KindProfile)); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateMe edits the caller's own profile; a role in the payload is ignored.
func (s *userService) UpdateMe(ctx context.Context, actor *policy.Actor, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := policy.Allow(actor, policy.Update, policy.On(policy.KindProfile)); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	req.Role = nil
	return s.apply(ctx, user, req)
}

func (s *userService) apply(ctx context.Context, user *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if req.Username != nil {
		if err := ValidateUsername(*req.Username); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, userConflict(err)
	}
	return dto.FromModelToUserResponse(user), nil
}

func userConflict(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return NewValidationError("username", "a user with that username already exists")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return NewValidationError("email", "a user with that email already exists")
	}
	return err
}
