package repository

import (
	"context"
	"fmt"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TitleFilter narrows a title listing. Zero values are ignored.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string // case-insensitive substring
	Year         *int
}

type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page Page) ([]models.Title, int64, error)
	FindByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, title *models.Title) error
	Update(ctx context.Context, title *models.Title) error
	ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
	SetRating(ctx context.Context, id int64, rating *float64) error
	// LockForUpdate takes a row lock on the title until the surrounding
	// transaction ends. Writers of a title's reviews serialize on it.
	LockForUpdate(ctx context.Context, id int64) error
	ListIDs(ctx context.Context) ([]int64, error)
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page Page) ([]models.Title, int64, error) {
	page = page.Normalize()
	q := conn(ctx, r.db).Model(&models.Title{})

	if filter.CategorySlug != "" {
		q = q.Where("titles.category_id IN (?)",
			conn(ctx, r.db).Model(&models.Category{}).Select("id").Where("slug = ?", filter.CategorySlug))
	}
	if filter.GenreSlug != "" {
		q = q.Where("titles.id IN (?)",
			conn(ctx, r.db).Table("title_genres").
				Select("title_genres.title_id").
				Joins("JOIN genres ON genres.id = title_genres.genre_id").
				Where("genres.slug = ?", filter.GenreSlug))
	}
	if filter.Name != "" {
		q = q.Where("LOWER(titles.name)"+likeClause, likePattern(filter.Name))
	}
	if filter.Year != nil {
		q = q.Where("titles.year = ?", *filter.Year)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	var list []models.Title
	err := q.Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name asc") }).
		Order("titles.id asc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	return list, total, nil
}

func (r *titleRepository) FindByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	err := conn(ctx, r.db).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name asc") }).
		First(&t, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// Create inserts the title together with its genre links.
func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	if err := conn(ctx, r.db).Omit("Category").Create(title).Error; err != nil {
		return fmt.Errorf("create title: %w", translate(err))
	}
	return nil
}

// Update saves the scalar columns. Rating is owned by SetRating.
func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	err := conn(ctx, r.db).Model(title).
		Select("Name", "Year", "Description", "CategoryID").
		Updates(title).Error
	if err != nil {
		return fmt.Errorf("update title: %w", translate(err))
	}
	return nil
}

func (r *titleRepository) ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	if err := conn(ctx, r.db).Model(title).Association("Genres").Replace(genres); err != nil {
		return fmt.Errorf("replace genres: %w", err)
	}
	title.Genres = genres
	return nil
}

// Delete removes the title; reviews, comments and genre links cascade.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := conn(ctx, r.db).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *titleRepository) SetRating(ctx context.Context, id int64, rating *float64) error {
	result := conn(ctx, r.db).Model(&models.Title{}).Where("id = ?", id).Update("rating", rating)
	if result.Error != nil {
		return fmt.Errorf("set rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LockForUpdate selects the row FOR UPDATE. SQLite drops the locking clause and
// relies on its single writer instead.
func (r *titleRepository) LockForUpdate(ctx context.Context, id int64) error {
	var t models.Title
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&t, id).Error
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *titleRepository) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := conn(ctx, r.db).Model(&models.Title{}).Order("id asc").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list title ids: %w", err)
	}
	return ids, nil
}
