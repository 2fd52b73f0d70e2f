package service

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/metrics"
	"yamdb/internal/policy"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) ([]dto.ReviewResponse, int64, error)
	Get(ctx context.Context, titleID, id int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, actor *policy.Actor, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *policy.Actor, titleID, id int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, titleID, id int64) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  repository.TitleRepository
	logger  *slog.Logger
}

func NewReviewService(reviews repository.ReviewRepository, titles repository.TitleRepository, logger *slog.Logger) ReviewService {
	return &reviewService{reviews: reviews, titles: titles, logger: logger}
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	ok, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTitleNotFound
	}
	return nil
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) ([]dto.ReviewResponse, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.reviews.ListByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ReviewResponse, 0, len(list))
	for i := range list {
		out = append(out, *dto.FromModelToReviewResponse(&list[i]))
	}
	return out, total, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, id int64) (*dto.ReviewResponse, error) {
	r, err := s.reviews.GetByID(ctx, titleID, id)
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return dto.FromModelToReviewResponse(r), nil
}

// Create posts the caller's review. One review per author and title: the
// pre-check gives the common case a friendly error, the unique constraint
// settles concurrent submissions.
func (s *reviewService) Create(ctx context.Context, actor *policy.Actor, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := policy.Allow(actor, policy.Create, policy.On(policy.KindReview)); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsByAuthor(ctx, titleID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		metrics.RecordReview("duplicate")
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			s.logger.Info("review_duplicate_race", "title_id", titleID, "author_id", actor.UserID)
			metrics.RecordReview("duplicate")
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	metrics.RecordReview("ok")
	return s.Get(ctx, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, actor *policy.Actor, titleID, id int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.authorized(ctx, actor, policy.Update, titleID, id)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor *policy.Actor, titleID, id int64) error {
	review, err := s.authorized(ctx, actor, policy.Delete, titleID, id)
	if err != nil {
		return err
	}
	return notFound(s.reviews.Delete(ctx, review.ID), ErrReviewNotFound)
}

// authorized loads the review (404 first) and then checks ownership (403).
func (s *reviewService) authorized(ctx context.Context, actor *policy.Actor, action policy.Action, titleID, id int64) (*models.Review, error) {
	if actor == nil {
		return nil, policy.ErrUnauthenticated
	}
	review, err := s.reviews.GetByID(ctx, titleID, id)
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	if err := policy.Allow(actor, action, policy.OwnedBy(policy.KindReview, review)); err != nil {
		return nil, err
	}
	return review, nil
}
