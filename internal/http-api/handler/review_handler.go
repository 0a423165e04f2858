package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes nested under /titles/:title_id.
func (h *ReviewHandler) RegisterRoutes(titles *gin.RouterGroup) {
	reviews := titles.Group("/:title_id/reviews")
	{
		reviews.GET("", h.List)
		reviews.POST("", h.Create)
		reviews.GET("/:review_id", h.Get)
		reviews.PATCH("/:review_id", h.Update)
		reviews.DELETE("/:review_id", h.Delete)
		reviews.PUT("/:review_id", replaceNotAllowed(policy.KindReview))
	}
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	resp, err := h.reviewService.List(c.Request.Context(), middleware.ActorFrom(c), titleID, pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	resp, err := h.reviewService.Get(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create posts the requester's review of a title
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.reviewService.Create(c.Request.Context(), middleware.ActorFrom(c), titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	var req dto.ReviewUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.reviewService.Update(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
