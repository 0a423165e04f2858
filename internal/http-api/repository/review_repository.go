package repository

import (
	"context"
	"database/sql"
	"fmt"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	ListByTitle(ctx context.Context, titleID int64, page Page) ([]models.Review, int64, error)
	// FindByID resolves a review only within its title.
	FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, reviewID int64) error
	// AverageScore returns the mean score of a title's reviews, nil when it has none.
	AverageScore(ctx context.Context, titleID int64) (*float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// ListByTitle returns a title's reviews newest first.
func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, page Page) ([]models.Review, int64, error) {
	page = page.Normalize()

	var total int64
	if err := conn(ctx, r.db).Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	var reviews []models.Review
	err := conn(ctx, r.db).Where("title_id = ?", titleID).
		Preload("Author").
		Order("pub_date desc, id desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var review models.Review
	err := conn(ctx, r.db).Where("id = ? AND title_id = ?", reviewID, titleID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepository) ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return count > 0, nil
}

// Create inserts a review. A second review by the same author on the same
// title fails with ErrDuplicate from the unique_review index.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := conn(ctx, r.db).Omit("Author", "Title").Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", translate(err))
	}
	return nil
}

// Update saves text and score; author, title and pub_date never change.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := conn(ctx, r.db).Model(review).Select("Text", "Score").Updates(review).Error
	if err != nil {
		return fmt.Errorf("update review: %w", translate(err))
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, reviewID int64) error {
	result := conn(ctx, r.db).Delete(&models.Review{}, reviewID)
	if result.Error != nil {
		return fmt.Errorf("delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) AverageScore(ctx context.Context, titleID int64) (*float64, error) {
	var avg sql.NullFloat64
	err := conn(ctx, r.db).Model(&models.Review{}).
		Select("AVG(score)").
		Where("title_id = ?", titleID).
		Row().
		Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
