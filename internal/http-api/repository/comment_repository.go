package repository

import (
	"context"
	"fmt"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	ListByReview(ctx context.Context, reviewID int64, page Page) ([]models.Comment, int64, error)
	// FindByID resolves a comment only within its review.
	FindByID(ctx context.Context, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, commentID int64) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByReview retrieves a review's comments newest first.
func (r *commentRepository) ListByReview(ctx context.Context, reviewID int64, page Page) ([]models.Comment, int64, error) {
	page = page.Normalize()

	var total int64
	if err := conn(ctx, r.db).Model(&models.Comment{}).Where("review_id = ?", reviewID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	var comments []models.Comment
	err := conn(ctx, r.db).Where("review_id = ?", reviewID).
		Preload("Author").
		Order("pub_date desc, id desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

func (r *commentRepository) FindByID(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := conn(ctx, r.db).Where("id = ? AND review_id = ?", commentID, reviewID).
		Preload("Author").
		First(&comment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := conn(ctx, r.db).Omit("Author", "Review").Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", translate(err))
	}
	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := conn(ctx, r.db).Model(comment).Select("Text").Updates(comment).Error; err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result := conn(ctx, r.db).Delete(&models.Comment{}, commentID)
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
