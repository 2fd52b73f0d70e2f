package repository

import (
	"context"
	"fmt"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var reviewUniqueKeys = map[string]error{
	"title_author": ErrDuplicateReview,
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, titleID, id int64) (*models.Review, error)
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	ExistsByAuthor(ctx context.Context, titleID int64, authorID string) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review; a second review by the same author on the same
// title fails with ErrDuplicateReview.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error; err != nil {
		if IsUniqueViolation(err) {
			return classifyUnique(err, reviewUniqueKeys)
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// Update writes text and score; author, title and pub_date never change.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	result := r.db.WithContext(ctx).
		Model(&models.Review{ID: review.ID}).
		Select("text", "score").
		Updates(map[string]any{"text": review.Text, "score": review.Score})
	if result.Error != nil {
		return fmt.Errorf("update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID loads a review only if it belongs to the given title.
func (r *reviewRepository) GetByID(ctx context.Context, titleID, id int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND title_id = ?", id, titleID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	err := r.db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Preload("Author").
		Order(models.NewestFirst).
		Scopes(paginate(page, pageSize)).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *reviewRepository) ExistsByAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check review: %w", err)
	}
	return count > 0, nil
}
