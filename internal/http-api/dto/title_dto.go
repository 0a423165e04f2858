package dto

import "yamdb/internal/http-api/models"

// TitleCreateRequest references its category and genres by slug.
type TitleCreateRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

// TitleUpdateRequest is a partial update. An empty category slug clears the
// category; a present genre list replaces the current one.
type TitleUpdateRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// TitleQuery carries the list filters from the query string.
type TitleQuery struct {
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
}

type TitleResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Rating      *float64           `json:"rating"`
	Description *string            `json:"description"`
	Genre       []TaxonomyResponse `json:"genre"`
	Category    *TaxonomyResponse  `json:"category"`
}

func FromModelToTitleResponse(t *models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]TaxonomyResponse, 0, len(t.Genres)),
	}
	for i := range t.Genres {
		resp.Genre = append(resp.Genre, FromModelToGenreResponse(&t.Genres[i]))
	}
	if t.Category != nil {
		c := FromModelToCategoryResponse(t.Category)
		resp.Category = &c
	}
	return resp
}
