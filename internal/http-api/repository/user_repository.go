package repository

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
// Lookups return gorm.ErrRecordNotFound (wrapped) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetOrCreate(ctx context.Context, username, email string) (*models.User, bool, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	SetConfirmationCode(ctx context.Context, userID, hashedCode string) error
}

var userUniqueKeys = map[string]error{
	"username": ErrDuplicateUsername,
	"email":    ErrDuplicateEmail,
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return classifyUnique(err, userUniqueKeys)
	}
	return nil
}

// GetOrCreate returns the user bound to exactly this (username, email) pair,
// creating it when neither value is taken. The bool reports creation.
// A pair that collides with another user's username or email yields
// ErrDuplicateUsername / ErrDuplicateEmail from the unique constraints.
func (r *userRepository) GetOrCreate(ctx context.Context, username, email string) (*models.User, bool, error) {
	user, err := r.findByPair(ctx, username, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user = &models.User{Username: username, Email: email, Role: models.RoleUser}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if !IsUniqueViolation(err) {
			return nil, false, fmt.Errorf("create user: %w", err)
		}
		// a concurrent signup may have inserted the same pair first
		if existing, findErr := r.findByPair(ctx, username, email); findErr == nil {
			return existing, false, nil
		}
		return nil, false, classifyUnique(err, userUniqueKeys)
	}
	return user, true, nil
}

func (r *userRepository) findByPair(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ? AND email = ?", username, email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	// return nil on error, a zero-value user would look like a match to callers
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users ordered by username; search matches the username exactly.
func (r *userRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	filter := func(db *gorm.DB) *gorm.DB {
		if search != "" {
			return db.Where("username = ?", search)
		}
		return db
	}

	if err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if err := r.db.WithContext(ctx).
		Scopes(filter, paginate(page, pageSize)).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Update writes profile fields and role; the confirmation code is left alone.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Model(user).
		Select("username", "email", "first_name", "last_name", "bio", "role", "updated_at").
		Updates(user).Error
	if err != nil {
		return classifyUnique(err, userUniqueKeys)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) SetConfirmationCode(ctx context.Context, userID, hashedCode string) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("confirmation_code", hashedCode)
	if result.Error != nil {
		return fmt.Errorf("set confirmation code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
