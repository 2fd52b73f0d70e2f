package repository

import (
	"context"
	"fmt"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	DeleteBySlug(ctx context.Context, slug string) error
}

type GenreRepository interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	ListBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	Create(ctx context.Context, g *models.Genre) error
	DeleteBySlug(ctx context.Context, slug string) error
}

var slugUniqueKeys = map[string]error{
	"_name_": ErrDuplicateName,
	"_slug_": ErrDuplicateSlug,
}

// slugRepository serves categories and genres, both addressed by slug and
// ordered by name.
type slugRepository[T models.Category | models.Genre] struct {
	db   *gorm.DB
	kind string
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &slugRepository[models.Category]{db: db, kind: "category"}
}

func NewGenreRepo(db *gorm.DB) GenreRepository {
	return &slugRepository[models.Genre]{db: db, kind: "genre"}
}

// List returns a page ordered by name; search is a case-insensitive partial match on name.
func (r *slugRepository[T]) List(ctx context.Context, search string, page, pageSize int) ([]T, int64, error) {
	var list []T
	var total int64

	filter := func(db *gorm.DB) *gorm.DB {
		if search != "" {
			return db.Where(`name ILIKE ? ESCAPE '\'`, containsPattern(search))
		}
		return db
	}

	if err := r.db.WithContext(ctx).Model(new(T)).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.kind, err)
	}
	if err := r.db.WithContext(ctx).
		Scopes(filter, paginate(page, pageSize)).
		Order("name asc").
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get %s list: %w", r.kind, err)
	}
	return list, total, nil
}

func (r *slugRepository[T]) GetBySlug(ctx context.Context, slug string) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&item).Error; err != nil {
		return nil, fmt.Errorf("get %s %q: %w", r.kind, slug, err)
	}
	return &item, nil
}

// ListBySlugs returns the rows whose slug is in slugs, in no particular order.
func (r *slugRepository[T]) ListBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	var list []T
	if len(slugs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get %s by slugs: %w", r.kind, err)
	}
	return list, nil
}

func (r *slugRepository[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if IsUniqueViolation(err) {
			return classifyUnique(err, slugUniqueKeys)
		}
		return fmt.Errorf("create %s: %w", r.kind, err)
	}
	return nil
}

// DeleteBySlug removes the row; titles keep existing (category_id is SET NULL,
// title_genres rows cascade).
func (r *slugRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("delete %s: %w", r.kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
