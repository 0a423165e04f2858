package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"
)

type TitleService interface {
	List(ctx context.Context, actor policy.Actor, query dto.TitleQuery, page repository.Page) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, actor policy.Actor, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, actor policy.Actor, req dto.TitleCreateRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, actor policy.Actor, id int64, req dto.TitleUpdateRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, actor policy.Actor, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	tx           repository.Transactor
	logger       *slog.Logger
	now          func() time.Time
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	tx repository.Transactor,
	logger *slog.Logger,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		tx:           tx,
		logger:       logger,
		now:          time.Now,
	}
}

var titleResource = policy.Resource{Kind: policy.KindTitle}

func (s *titleService) List(ctx context.Context, actor policy.Actor, query dto.TitleQuery, page repository.Page) (*dto.Paginated[dto.TitleResponse], error) {
	if err := authorize(actor, policy.ActionList, titleResource); err != nil {
		return nil, err
	}
	filter := repository.TitleFilter{
		CategorySlug: query.Category,
		GenreSlug:    query.Genre,
		Name:         query.Name,
		Year:         query.Year,
	}
	titles, total, err := s.titleRepo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return dto.NewPaginated(titles, total, dto.FromModelToTitleResponse), nil
}

func (s *titleService) Get(ctx context.Context, actor policy.Actor, id int64) (*dto.TitleResponse, error) {
	if err := authorize(actor, policy.ActionRetrieve, titleResource); err != nil {
		return nil, err
	}
	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	resp := dto.FromModelToTitleResponse(title)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, actor policy.Actor, req dto.TitleCreateRequest) (*dto.TitleResponse, error) {
	if err := authorize(actor, policy.ActionCreate, titleResource); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	v := &ValidationError{}
	validateName(v, title.Name)
	if req.Year == nil {
		v.Add("year", "This field is required.")
	} else {
		title.Year = *req.Year
		validateYear(v, title.Year, s.now())
	}

	categoryID, err := s.resolveCategory(ctx, v, req.Category)
	if err != nil {
		return nil, err
	}
	title.CategoryID = categoryID

	genres, err := s.resolveGenres(ctx, v, req.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	s.logger.Info("Title created", "title_id", title.ID, "name", title.Name)
	return s.Get(ctx, actor, title.ID)
}

func (s *titleService) Update(ctx context.Context, actor policy.Actor, id int64, req dto.TitleUpdateRequest) (*dto.TitleResponse, error) {
	if err := authorize(actor, policy.ActionUpdate, titleResource); err != nil {
		return nil, err
	}

	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	v := &ValidationError{}
	if req.Name != nil {
		title.Name = strings.TrimSpace(*req.Name)
		validateName(v, title.Name)
	}
	if req.Year != nil {
		title.Year = *req.Year
		validateYear(v, title.Year, s.now())
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		categoryID, err := s.resolveCategory(ctx, v, req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = categoryID
		title.Category = nil
	}

	var genres []models.Genre
	if req.Genre != nil {
		if genres, err = s.resolveGenres(ctx, v, *req.Genre); err != nil {
			return nil, err
		}
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.titleRepo.Update(ctx, title); err != nil {
			return err
		}
		if req.Genre != nil {
			return s.titleRepo.ReplaceGenres(ctx, title, genres)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

func (s *titleService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	if err := authorize(actor, policy.ActionDelete, titleResource); err != nil {
		return err
	}
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.logger.Info("Title deleted", "title_id", id)
	return nil
}

// resolveCategory maps a category slug onto its id. Nil or empty means none.
func (s *titleService) resolveCategory(ctx context.Context, v *ValidationError, slug *string) (*int64, error) {
	if slug == nil || *slug == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.FindBySlug(ctx, *slug)
	if errors.Is(err, repository.ErrNotFound) {
		v.Add("category", fmt.Sprintf("Category with slug %q does not exist.", *slug))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}

// resolveGenres maps genre slugs onto genres, reporting every unknown slug.
func (s *titleService) resolveGenres(ctx context.Context, v *ValidationError, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return []models.Genre{}, nil
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			v.Add("genre", fmt.Sprintf("Genre with slug %q does not exist.", slug))
		}
	}
	return genres, nil
}
