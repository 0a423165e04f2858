package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// meAlias addresses the requesting user under /users.
const meAlias = "me"

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user routes. /users/me shares the :username
// segment and is dispatched inside each handler.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:username", h.Get)
		users.PATCH("/:username", h.Update)
		users.DELETE("/:username", h.Delete)
		users.PUT("/:username", replaceNotAllowed(policy.KindUser))
	}
}

// List users, optionally filtered by ?search=
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	resp, err := h.userService.List(c.Request.Context(), middleware.ActorFrom(c), c.Query("search"), pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create a user as admin
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.userService.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get a user by username, or the requester for /users/me
// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	ctx, actor := c.Request.Context(), middleware.ActorFrom(c)

	var (
		resp *dto.UserResponse
		err  error
	)
	if username := c.Param("username"); username == meAlias {
		resp, err = h.userService.Me(ctx, actor)
	} else {
		resp, err = h.userService.Get(ctx, actor, username)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update partially updates a user
// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, actor := c.Request.Context(), middleware.ActorFrom(c)

	var (
		resp *dto.UserResponse
		err  error
	)
	if username := c.Param("username"); username == meAlias {
		resp, err = h.userService.UpdateMe(ctx, actor, req)
	} else {
		resp, err = h.userService.Update(ctx, actor, username, req)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete a user; deleting oneself is always refused
// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	ctx, actor := c.Request.Context(), middleware.ActorFrom(c)

	var err error
	if username := c.Param("username"); username == meAlias {
		err = h.userService.DeleteMe(ctx, actor)
	} else {
		err = h.userService.Delete(ctx, actor, username)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
