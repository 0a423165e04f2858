package repository

import (
	"context"
	"fmt"

	"yamdb/internal/http-api/models"

	"gorm.io/gorm"
)

// Taxon is a slug-addressed lookup entity.
type Taxon interface {
	models.Category | models.Genre
}

// TaxonomyRepository stores categories or genres. Both share one shape and
// are addressed by slug.
type TaxonomyRepository[T Taxon] interface {
	List(ctx context.Context, search string, page Page) ([]T, int64, error)
	FindBySlug(ctx context.Context, slug string) (*T, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	DeleteBySlug(ctx context.Context, slug string) error
	// Referenced reports whether any title points at item.
	Referenced(ctx context.Context, item *T) (bool, error)
}

type CategoryRepository = TaxonomyRepository[models.Category]
type GenreRepository = TaxonomyRepository[models.Genre]

type taxonomyRepository[T Taxon] struct {
	db   *gorm.DB
	noun string
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &taxonomyRepository[models.Category]{db: db, noun: "category"}
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &taxonomyRepository[models.Genre]{db: db, noun: "genre"}
}

func (r *taxonomyRepository[T]) List(ctx context.Context, search string, page Page) ([]T, int64, error) {
	page = page.Normalize()
	q := conn(ctx, r.db).Model(new(T))
	if search != "" {
		q = q.Where("LOWER(name)"+likeClause, likePattern(search))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.noun, err)
	}

	var list []T
	if err := q.Order("name asc").Limit(page.Limit).Offset(page.Offset).Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.noun, err)
	}
	return list, total, nil
}

func (r *taxonomyRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	item := new(T)
	if err := conn(ctx, r.db).Where("slug = ?", slug).First(item).Error; err != nil {
		return nil, translate(err)
	}
	return item, nil
}

// FindBySlugs returns the rows matching slugs; missing slugs are simply absent.
func (r *taxonomyRepository[T]) FindBySlugs(ctx context.Context, slugs []string) ([]T, error) {
	var list []T
	if len(slugs) == 0 {
		return list, nil
	}
	if err := conn(ctx, r.db).Where("slug IN ?", slugs).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find %s by slugs: %w", r.noun, err)
	}
	return list, nil
}

func (r *taxonomyRepository[T]) Create(ctx context.Context, item *T) error {
	if err := conn(ctx, r.db).Create(item).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.noun, translate(err))
	}
	return nil
}

func (r *taxonomyRepository[T]) Update(ctx context.Context, item *T) error {
	if err := conn(ctx, r.db).Model(item).Select("Name", "Slug").Updates(item).Error; err != nil {
		return fmt.Errorf("update %s: %w", r.noun, translate(err))
	}
	return nil
}

func (r *taxonomyRepository[T]) DeleteBySlug(ctx context.Context, slug string) error {
	result := conn(ctx, r.db).Where("slug = ?", slug).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("delete %s: %w", r.noun, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taxonomyRepository[T]) Referenced(ctx context.Context, item *T) (bool, error) {
	q := conn(ctx, r.db)
	switch v := any(item).(type) {
	case *models.Category:
		q = q.Model(&models.Title{}).Where("category_id = ?", v.ID)
	case *models.Genre:
		q = q.Table("title_genres").Where("genre_id = ?", v.ID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("count %s references: %w", r.noun, err)
	}
	return n > 0, nil
}
