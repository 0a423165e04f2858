package service

import (
	"context"
	"log/slog"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"
)

type CommentService interface {
	List(ctx context.Context, actor policy.Actor, titleID, reviewID int64, page repository.Page) (*dto.Paginated[dto.CommentResponse], error)
	Get(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.CommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64, req dto.CommentUpdateRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	logger      *slog.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reviewRepo repository.ReviewRepository,
	logger *slog.Logger,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		logger:      logger,
	}
}

var commentCollection = policy.Resource{Kind: policy.KindComment}

// review resolves the parent review within its title.
func (s *commentService) review(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound(err)
	}
	return review, nil
}

func (s *commentService) List(ctx context.Context, actor policy.Actor, titleID, reviewID int64, page repository.Page) (*dto.Paginated[dto.CommentResponse], error) {
	if err := authorize(actor, policy.ActionList, commentCollection); err != nil {
		return nil, err
	}
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comments, total, err := s.commentRepo.ListByReview(ctx, reviewID, page)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(comments, total, dto.FromModelToCommentResponse), nil
}

func (s *commentService) Get(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	if err := authorize(actor, policy.ActionRetrieve, commentCollection); err != nil {
		return nil, err
	}
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, notFound(err)
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Create(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.CommentRequest) (*dto.CommentResponse, error) {
	if err := authorize(actor, policy.ActionCreate, commentCollection); err != nil {
		return nil, err
	}
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	v := &ValidationError{}
	validateText(v, req.Text)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	comment := &models.Comment{Text: req.Text, AuthorID: actor.ID, ReviewID: reviewID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info("Comment created", "comment_id", comment.ID, "review_id", reviewID, "author_id", actor.ID)
	return s.Get(ctx, actor, titleID, reviewID, comment.ID)
}

func (s *commentService) Update(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64, req dto.CommentUpdateRequest) (*dto.CommentResponse, error) {
	comment, err := s.load(ctx, actor, policy.ActionUpdate, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if req.Text != nil {
		comment.Text = *req.Text
		v := &ValidationError{}
		validateText(v, comment.Text)
		if err := v.OrNil(); err != nil {
			return nil, err
		}
	}
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) error {
	comment, err := s.load(ctx, actor, policy.ActionDelete, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return notFound(err)
	}
	s.logger.Info("Comment deleted", "comment_id", commentID, "by", actor.ID)
	return nil
}

func (s *commentService) load(ctx context.Context, actor policy.Actor, action policy.Action, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if !actor.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, notFound(err)
	}
	res := policy.Resource{Kind: policy.KindComment, OwnerID: comment.AuthorID}
	if err := authorize(actor, action, res); err != nil {
		return nil, err
	}
	return comment, nil
}
