package dto

import "yamdb/internal/http-api/models"

// TaxonomyRequest creates a category or a genre.
type TaxonomyRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type TaxonomyUpdateRequest struct {
	Name *string `json:"name" binding:"omitempty,max=256"`
	Slug *string `json:"slug" binding:"omitempty,max=50"`
}

type TaxonomyResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromModelToCategoryResponse(c *models.Category) TaxonomyResponse {
	return TaxonomyResponse{Name: c.Name, Slug: c.Slug}
}

func FromModelToGenreResponse(g *models.Genre) TaxonomyResponse {
	return TaxonomyResponse{Name: g.Name, Slug: g.Slug}
}
