package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes registers comment routes nested under a review.
func (h *CommentHandler) RegisterRoutes(titles *gin.RouterGroup) {
	comments := titles.Group("/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.POST("", h.Create)
		comments.GET("/:comment_id", h.Get)
		comments.PATCH("/:comment_id", h.Update)
		comments.DELETE("/:comment_id", h.Delete)
		comments.PUT("/:comment_id", replaceNotAllowed(policy.KindComment))
	}
}

// parentIDs reads the title and review ids of the nested route.
func parentIDs(c *gin.Context) (titleID, reviewID int64, ok bool) {
	if titleID, ok = paramID(c, "title_id"); !ok {
		return
	}
	reviewID, ok = paramID(c, "review_id")
	return
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := parentIDs(c)
	if !ok {
		return
	}
	resp, err := h.commentService.List(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := parentIDs(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}
	resp, err := h.commentService.Get(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := parentIDs(c)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.commentService.Create(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := parentIDs(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}
	var req dto.CommentUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.commentService.Update(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, commentID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := parentIDs(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
