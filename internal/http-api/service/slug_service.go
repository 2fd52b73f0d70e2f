package service

import (
	"context"
	"errors"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/policy"
)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]dto.CategoryResponse, int64, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.CreateSlugRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) ([]dto.CategoryResponse, int64, error) {
	list, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for i := range list {
		out = append(out, *dto.FromModelToCategoryResponse(&list[i]))
	}
	return out, total, nil
}

func (s *categoryService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateSlugRequest) (*dto.CategoryResponse, error) {
	if err := policy.Allow(actor, policy.Create, policy.On(policy.KindCategory)); err != nil {
		return nil, err
	}
	if err := ValidateSlug(req.Slug); err != nil {
		return nil, err
	}
	c := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, slugConflict(err, "category")
	}
	return dto.FromModelToCategoryResponse(c), nil
}

func (s *categoryService) Delete(ctx context.Context, actor *policy.Actor, slug string) error {
	if err := policy.Allow(actor, policy.Delete, policy.On(policy.KindCategory)); err != nil {
		return err
	}
	return notFound(s.repo.DeleteBySlug(ctx, slug), ErrCategoryNotFound)
}

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]dto.GenreResponse, int64, error)
	Create(ctx context.Context, actor *policy.Actor, req dto.CreateSlugRequest) (*dto.GenreResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) ([]dto.GenreResponse, int64, error) {
	list, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.GenreResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.FromModelToGenreResponse(&list[i]))
	}
	return out, total, nil
}

func (s *genreService) Create(ctx context.Context, actor *policy.Actor, req dto.CreateSlugRequest) (*dto.GenreResponse, error) {
	if err := policy.Allow(actor, policy.Create, policy.On(policy.KindGenre)); err != nil {
		return nil, err
	}
	if err := ValidateSlug(req.Slug); err != nil {
		return nil, err
	}
	g := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, slugConflict(err, "genre")
	}
	resp := dto.FromModelToGenreResponse(g)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, actor *policy.Actor, slug string) error {
	if err := policy.Allow(actor, policy.Delete, policy.On(policy.KindGenre)); err != nil {
		return err
	}
	return notFound(s.repo.DeleteBySlug(ctx, slug), ErrGenreNotFound)
}

func slugConflict(err error, kind string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateName):
		return NewValidationError("name", kind+" with this name already exists")
	case errors.Is(err, repository.ErrDuplicateSlug):
		return NewValidationError("slug", kind+" with this slug already exists")
	}
	return err
}
