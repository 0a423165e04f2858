package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"yamdb/internal/http-api/repository"
)

// RatingService keeps Title.rating equal to the mean score of its reviews.
type RatingService interface {
	// Recompute refreshes one title's rating. Called with a transactional ctx
	// it joins that transaction.
	Recompute(ctx context.Context, titleID int64) error
	// RecomputeAll refreshes every title, each in its own transaction, and
	// returns how many were processed.
	RecomputeAll(ctx context.Context) (int, error)
}

type ratingService struct {
	titleRepo  repository.TitleRepository
	reviewRepo repository.ReviewRepository
	tx         repository.Transactor
	logger     *slog.Logger
}

func NewRatingService(
	titleRepo repository.TitleRepository,
	reviewRepo repository.ReviewRepository,
	tx repository.Transactor,
	logger *slog.Logger,
) RatingService {
	return &ratingService{
		titleRepo:  titleRepo,
		reviewRepo: reviewRepo,
		tx:         tx,
		logger:     logger,
	}
}

func (s *ratingService) Recompute(ctx context.Context, titleID int64) error {
	avg, err := s.reviewRepo.AverageScore(ctx, titleID)
	if err != nil {
		return err
	}
	if err := s.titleRepo.SetRating(ctx, titleID, avg); err != nil {
		return fmt.Errorf("update rating of title %d: %w", titleID, err)
	}
	return nil
}

func (s *ratingService) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.titleRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := s.titleRepo.LockForUpdate(ctx, id); err != nil {
				return err
			}
			return s.Recompute(ctx, id)
		})
		// titles deleted since ListIDs are skipped
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return done, err
		}
		done++
	}
	s.logger.Debug("Ratings recomputed", "titles", done)
	return done, nil
}
