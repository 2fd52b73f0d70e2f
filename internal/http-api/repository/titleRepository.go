package repository

import (
	"context"
	"fmt"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TitleFilter narrows a title listing; zero values are ignored.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

type TitleRepository interface {
	List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, t *models.Title, genres []models.Genre) error
	// Update writes scalar fields and category; genres replaces the genre set
	// unless it is nil.
	Update(ctx context.Context, t *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
}

type TitleRepo struct {
	db *gorm.DB
}

func NewTitleRepo(db *gorm.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

// withRating selects titles with their rating, computed on every query.
func withRating(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Title{}).
		Select("titles.*, AVG(reviews.score)::float8 AS rating").
		Joins("LEFT JOIN reviews ON reviews.title_id = titles.id").
		Group("titles.id")
}

func (r *TitleRepo) filter(f TitleFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.CategorySlug != "" {
			db = db.Where("titles.category_id IN (?)",
				r.db.Model(&models.Category{}).Select("id").Where("slug = ?", f.CategorySlug))
		}
		if f.GenreSlug != "" {
			db = db.Where("titles.id IN (?)",
				r.db.Table("title_genres").
					Select("title_genres.title_id").
					Joins("JOIN genres ON genres.id = title_genres.genre_id").
					Where("genres.slug = ?", f.GenreSlug))
		}
		if f.Name != "" {
			db = db.Where(`titles.name ILIKE ? ESCAPE '\'`, containsPattern(f.Name))
		}
		if f.Year != nil {
			db = db.Where("titles.year = ?", *f.Year)
		}
		return db
	}
}

func (r *TitleRepo) List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Title{}).Scopes(r.filter(f)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Scopes(withRating, r.filter(f), paginate(page, pageSize)).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name asc") }).
		Order("titles.name asc, titles.id asc").
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}

	return list, total, nil
}

func (r *TitleRepo) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := r.db.WithContext(ctx).
		Scopes(withRating).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name asc") }).
		Where("titles.id = ?", id).
		Take(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TitleRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check title: %w", err)
	}
	return count > 0, nil
}

func (r *TitleRepo) Create(ctx context.Context, t *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return fmt.Errorf("create title: %w", err)
		}
		if len(genres) > 0 {
			if err := tx.Model(t).Association("Genres").Replace(genres); err != nil {
				return fmt.Errorf("assign genres: %w", err)
			}
		}
		t.Genres = genres
		return nil
	})
}

func (r *TitleRepo) Update(ctx context.Context, t *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Title{ID: t.ID}).
			Select("name", "year", "description", "category_id").
			Updates(map[string]any{
				"name":        t.Name,
				"year":        t.Year,
				"description": t.Description,
				"category_id": t.CategoryID,
			})
		if result.Error != nil {
			return fmt.Errorf("update title: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if genres != nil {
			if err := tx.Model(&models.Title{ID: t.ID}).Association("Genres").Replace(genres); err != nil {
				return fmt.Errorf("replace genres: %w", err)
			}
			t.Genres = genres
		}
		return nil
	})
}

// Delete removes the title; its reviews and their comments go with it.
func (r *TitleRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
