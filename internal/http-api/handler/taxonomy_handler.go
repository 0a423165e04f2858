package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// TaxonomyHandler serves /categories or /genres.
type TaxonomyHandler struct {
	service service.TaxonomyService
	path    string
	kind    policy.Kind
}

func NewCategoryHandler(svc service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: svc, path: "/categories", kind: policy.KindCategory}
}

func NewGenreHandler(svc service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: svc, path: "/genres", kind: policy.KindGenre}
}

func (h *TaxonomyHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group(h.path)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.PATCH("/:slug", h.Update)
		group.DELETE("/:slug", h.Delete)
		group.PUT("/:slug", replaceNotAllowed(h.kind))
	}
}

// List entries, optionally filtered by ?search= on the name
func (h *TaxonomyHandler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), c.Query("search"), pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaxonomyHandler) Create(c *gin.Context) {
	var req dto.TaxonomyRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TaxonomyHandler) Update(c *gin.Context) {
	var req dto.TaxonomyUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("slug"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TaxonomyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
