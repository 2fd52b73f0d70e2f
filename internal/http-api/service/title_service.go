package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/policy"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]dto.TitleResponse, int64, error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, id int64) error
}

type titleService struct {
	titles     repository.TitleRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
}

func NewTitleService(titles repository.TitleRepository, categories repository.CategoryRepository, genres repository.GenreRepository) TitleService {
	return &titleService{titles: titles, categories: categories, genres: genres}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]dto.TitleResponse, int64, error) {
	list, total, err := s.titles.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.TitleResponse, 0, len(list))
	for i := range list {
		out = append(out, *dto.FromModelToTitleResponse(&list[i]))
	}
	return out, total, nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTitleNotFound)
	}
	return dto.FromModelToTitleResponse(t), nil
}

func (s *titleService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if err := policy.Allow(actor, policy.Create, policy.On(policy.KindTitle)); err != nil {
		return nil, err
	}

	var verr ValidationError
	if err := ValidateYear(*req.Year); err != nil {
		mergeInto(&verr, err)
	}
	category, err := s.resolveCategory(ctx, req.Category, &verr)
	if err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, req.Genre, &verr)
	if err != nil {
		return nil, err
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	t := &models.Title{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
	}
	if err := s.titles.Create(ctx, t, genres); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

func (s *titleService) Update(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	if err := policy.Allow(actor, policy.Update, policy.On(policy.KindTitle)); err != nil {
		return nil, err
	}

	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTitleNotFound)
	}

	var verr ValidationError
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Year != nil {
		if err := ValidateYear(*req.Year); err != nil {
			mergeInto(&verr, err)
		}
		t.Year = *req.Year
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category, &verr)
		if err != nil {
			return nil, err
		}
		if category != nil {
			t.CategoryID = &category.ID
		}
	}
	var genres []models.Genre
	if req.Genre != nil {
		if genres, err = s.resolveGenres(ctx, req.Genre, &verr); err != nil {
			return nil, err
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := s.titles.Update(ctx, t, genres); err != nil {
		return nil, notFound(err, ErrTitleNotFound)
	}
	return s.Get(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	if err := policy.Allow(actor, policy.Delete, policy.On(policy.KindTitle)); err != nil {
		return err
	}
	return notFound(s.titles.Delete(ctx, id), ErrTitleNotFound)
}

// resolveCategory records an unknown slug on verr and returns nil without error.
func (s *titleService) resolveCategory(ctx context.Context, slug string, verr *ValidationError) (*models.Category, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		verr.Add("category", fmt.Sprintf("object with slug=%s does not exist", slug))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// resolveGenres returns genres in request order; unknown slugs are recorded on verr.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string, verr *ValidationError) ([]models.Genre, error) {
	found, err := s.genres.ListBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]models.Genre, len(found))
	for _, g := range found {
		bySlug[g.Slug] = g
	}

	seen := make(map[string]bool, len(slugs))
	genres := make([]models.Genre, 0, len(slugs))
	var missing []string
	for _, slug := range slugs {
		if seen[slug] {
			continue
		}
		seen[slug] = true
		g, ok := bySlug[slug]
		if !ok {
			missing = append(missing, slug)
			continue
		}
		genres = append(genres, g)
	}
	if len(missing) > 0 {
		verr.Add("genre", fmt.Sprintf("object with slug=%s does not exist", strings.Join(missing, ", ")))
	}
	return genres, nil
}

func mergeInto(dst *ValidationError, err error) {
	var v *ValidationError
	if errors.As(err, &v) {
		for field, msgs := range v.Fields {
			for _, m := range msgs {
				dst.Add(field, m)
			}
		}
	}
}
