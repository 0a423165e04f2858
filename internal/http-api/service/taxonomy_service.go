package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"
)

// TaxonomyService manages categories or genres; both are admin-managed and
// addressed by slug.
type TaxonomyService interface {
	List(ctx context.Context, actor policy.Actor, search string, page repository.Page) (*dto.Paginated[dto.TaxonomyResponse], error)
	Create(ctx context.Context, actor policy.Actor, req dto.TaxonomyRequest) (*dto.TaxonomyResponse, error)
	Update(ctx context.Context, actor policy.Actor, slug string, req dto.TaxonomyUpdateRequest) (*dto.TaxonomyResponse, error)
	Delete(ctx context.Context, actor policy.Actor, slug string) error
}

type taxonomyService[T repository.Taxon] struct {
	repo   repository.TaxonomyRepository[T]
	kind   policy.Kind
	logger *slog.Logger
}

func NewCategoryService(repo repository.CategoryRepository, logger *slog.Logger) TaxonomyService {
	return &taxonomyService[models.Category]{repo: repo, kind: policy.KindCategory, logger: logger}
}

func NewGenreService(repo repository.GenreRepository, logger *slog.Logger) TaxonomyService {
	return &taxonomyService[models.Genre]{repo: repo, kind: policy.KindGenre, logger: logger}
}

// fields exposes the name and slug of a category or genre.
func fields[T repository.Taxon](item *T) (name, slug *string) {
	switch v := any(item).(type) {
	case *models.Category:
		return &v.Name, &v.Slug
	case *models.Genre:
		return &v.Name, &v.Slug
	}
	panic("unsupported taxonomy type")
}

func toTaxonomyResponse[T repository.Taxon](item *T) dto.TaxonomyResponse {
	name, slug := fields(item)
	return dto.TaxonomyResponse{Name: *name, Slug: *slug}
}

func (s *taxonomyService[T]) resource() policy.Resource {
	return policy.Resource{Kind: s.kind}
}

func (s *taxonomyService[T]) List(ctx context.Context, actor policy.Actor, search string, page repository.Page) (*dto.Paginated[dto.TaxonomyResponse], error) {
	if err := authorize(actor, policy.ActionList, s.resource()); err != nil {
		return nil, err
	}
	items, total, err := s.repo.List(ctx, search, page)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(items, total, toTaxonomyResponse[T]), nil
}

func (s *taxonomyService[T]) Create(ctx context.Context, actor policy.Actor, req dto.TaxonomyRequest) (*dto.TaxonomyResponse, error) {
	if err := authorize(actor, policy.ActionCreate, s.resource()); err != nil {
		return nil, err
	}

	item := new(T)
	name, slug := fields(item)
	*name, *slug = strings.TrimSpace(req.Name), strings.TrimSpace(req.Slug)

	v := &ValidationError{}
	validateName(v, *name)
	validateSlug(v, *slug)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, slugConflict(err)
	}
	s.logger.Info("Taxonomy entry created", "kind", s.kind, "slug", *slug)

	resp := toTaxonomyResponse(item)
	return &resp, nil
}

func (s *taxonomyService[T]) Update(ctx context.Context, actor policy.Actor, slug string, req dto.TaxonomyUpdateRequest) (*dto.TaxonomyResponse, error) {
	if err := authorize(actor, policy.ActionUpdate, s.resource()); err != nil {
		return nil, err
	}

	item, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}
	name, newSlug := fields(item)
	if req.Name != nil {
		*name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		*newSlug = strings.TrimSpace(*req.Slug)
	}

	v := &ValidationError{}
	validateName(v, *name)
	validateSlug(v, *newSlug)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	// once titles point at the entry only its name may change
	if *newSlug != slug {
		referenced, err := s.repo.Referenced(ctx, item)
		if err != nil {
			return nil, err
		}
		if referenced {
			return nil, fieldError("slug", ErrSlugReferenced)
		}
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, slugConflict(err)
	}
	resp := toTaxonomyResponse(item)
	return &resp, nil
}

func (s *taxonomyService[T]) Delete(ctx context.Context, actor policy.Actor, slug string) error {
	if err := authorize(actor, policy.ActionDelete, s.resource()); err != nil {
		return err
	}
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		return notFound(err)
	}
	s.logger.Info("Taxonomy entry deleted", "kind", s.kind, "slug", slug)
	return nil
}

func slugConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrSlugInUse
	}
	return notFound(err)
}
