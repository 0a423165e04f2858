package service

import (
	"context"
	"errors"
	"log/slog"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"
)

type ReviewService interface {
	List(ctx context.Context, actor policy.Actor, titleID int64, page repository.Page) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, actor policy.Actor, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, actor policy.Actor, titleID int64, req dto.ReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.ReviewUpdateRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor policy.Actor, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	ratings    RatingService
	tx         repository.Transactor
	logger     *slog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	ratings RatingService,
	tx repository.Transactor,
	logger *slog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
		tx:         tx,
		logger:     logger,
	}
}

var reviewCollection = policy.Resource{Kind: policy.KindReview}

func (s *reviewService) List(ctx context.Context, actor policy.Actor, titleID int64, page repository.Page) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := authorize(actor, policy.ActionList, reviewCollection); err != nil {
		return nil, err
	}
	if _, err := s.titleRepo.FindByID(ctx, titleID); err != nil {
		return nil, notFound(err)
	}
	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(reviews, total, dto.FromModelToReviewResponse), nil
}

func (s *reviewService) Get(ctx context.Context, actor policy.Actor, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	if err := authorize(actor, policy.ActionRetrieve, reviewCollection); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound(err)
	}
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

// Create stores the actor's review of a title and refreshes the title rating
// in the same transaction. Every review write holds the title row lock so
// concurrent writers cannot average over each other's uncommitted scores.
func (s *reviewService) Create(ctx context.Context, actor policy.Actor, titleID int64, req dto.ReviewRequest) (*dto.ReviewResponse, error) {
	if err := authorize(actor, policy.ActionCreate, reviewCollection); err != nil {
		return nil, err
	}
	if _, err := s.titleRepo.FindByID(ctx, titleID); err != nil {
		return nil, notFound(err)
	}

	v := &ValidationError{}
	validateText(v, req.Text)
	validateScore(v, req.Score)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForAuthor(ctx, titleID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		Text:     req.Text,
		Score:    req.Score,
		AuthorID: actor.ID,
		TitleID:  titleID,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.titleRepo.LockForUpdate(ctx, titleID); err != nil {
			return notFound(err)
		}
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			return err
		}
		return s.ratings.Recompute(ctx, titleID)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateReview
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Review created", "review_id", review.ID, "title_id", titleID, "author_id", actor.ID)
	return s.Get(ctx, actor, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.ReviewUpdateRequest) (*dto.ReviewResponse, error) {
	review, err := s.load(ctx, actor, policy.ActionUpdate, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	v := &ValidationError{}
	if req.Text != nil {
		review.Text = *req.Text
		validateText(v, review.Text)
	}
	if req.Score != nil {
		review.Score = *req.Score
		validateScore(v, review.Score)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.titleRepo.LockForUpdate(ctx, titleID); err != nil {
			return notFound(err)
		}
		if err := s.reviewRepo.Update(ctx, review); err != nil {
			return err
		}
		return s.ratings.Recompute(ctx, titleID)
	})
	if err != nil {
		return nil, err
	}

	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, actor policy.Actor, titleID, reviewID int64) error {
	review, err := s.load(ctx, actor, policy.ActionDelete, titleID, reviewID)
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.titleRepo.LockForUpdate(ctx, titleID); err != nil {
			return notFound(err)
		}
		if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
			return notFound(err)
		}
		return s.ratings.Recompute(ctx, titleID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Review deleted", "review_id", reviewID, "title_id", titleID, "by", actor.ID)
	return nil
}

// load fetches a review within its title and authorizes action on it.
func (s *reviewService) load(ctx context.Context, actor policy.Actor, action policy.Action, titleID, reviewID int64) (*models.Review, error) {
	if !actor.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}
	review, err := s.reviewRepo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound(err)
	}
	res := policy.Resource{Kind: policy.KindReview, OwnerID: review.AuthorID}
	if err := authorize(actor, action, res); err != nil {
		return nil, err
	}
	return review, nil
}
