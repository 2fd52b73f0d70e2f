package service

import (
	"context"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/policy"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]dto.CommentResponse, int64, error)
	Get(ctx context.Context, titleID, reviewID, id int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, actor *policy.Actor, titleID, reviewID int64, req dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor *policy.Actor, titleID, reviewID, id int64, req dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor *policy.Actor, titleID, reviewID, id int64) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
}

func NewCommentService(comments repository.CommentRepository, reviews repository.ReviewRepository) CommentService {
	return &commentService{comments: comments, reviews: reviews}
}

// requireReview fails unless the review exists under the given title.
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviews.GetByID(ctx, titleID, reviewID); err != nil {
		return notFound(err, ErrReviewNotFound)
	}
	return nil
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]dto.CommentResponse, int64, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.comments.ListByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CommentResponse, 0, len(list))
	for i := range list {
		out = append(out, *dto.FromModelToCommentResponse(&list[i]))
	}
	return out, total, nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, id int64) (*dto.CommentResponse, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	c, err := s.comments.GetByID(ctx, reviewID, id)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	return dto.FromModelToCommentResponse(c), nil
}

func (s *commentService) Create(ctx context.Context, actor *policy.Actor, titleID, reviewID int64, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if err := policy.Allow(actor, policy.Create, policy.On(policy.KindComment)); err != nil {
		return nil, err
	}
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Text:     req.Text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.Get(ctx, titleID, reviewID, comment.ID)
}

func (s *commentService) Update(ctx context.Context, actor *policy.Actor, titleID, reviewID, id int64, req dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	comment, err := s.authorized(ctx, actor, policy.Update, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		comment.Text = *req.Text
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, actor *policy.Actor, titleID, reviewID, id int64) error {
	comment, err := s.authorized(ctx, actor, policy.Delete, titleID, reviewID, id)
	if err != nil {
		return err
	}
	return notFound(s.comments.Delete(ctx, comment.ID), ErrCommentNotFound)
}

func (s *commentService) authorized(ctx context.Context, actor *policy.Actor, action policy.Action, titleID, reviewID, id int64) (*models.Comment, error) {
	if actor == nil {
		return nil, policy.ErrUnauthenticated
	}
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, reviewID, id)
	if err != nil {
		return nil, notFound(err, ErrCommentNotFound)
	}
	if err := policy.Allow(actor, action, policy.OwnedBy(policy.KindComment, comment)); err != nil {
		return nil, err
	}
	return comment, nil
}
