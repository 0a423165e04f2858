package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// RegisterRoutes registers title routes on the /titles group.
func (h *TitleHandler) RegisterRoutes(titles *gin.RouterGroup) {
	titles.GET("", h.List)
	titles.POST("", h.Create)
	titles.GET("/:title_id", h.Get)
	titles.PATCH("/:title_id", h.Update)
	titles.DELETE("/:title_id", h.Delete)
	titles.PUT("/:title_id", replaceNotAllowed(policy.KindTitle))
}

// List titles filtered by category, genre, name and year
// GET /api/v1/titles?category=&genre=&name=&year=
func (h *TitleHandler) List(c *gin.Context) {
	var query dto.TitleQuery
	if !bindQuery(c, &query) {
		return
	}
	resp, err := h.titleService.List(c.Request.Context(), middleware.ActorFrom(c), query, pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	resp, err := h.titleService.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.TitleCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.titleService.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	var req dto.TitleUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.titleService.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	if err := h.titleService.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
