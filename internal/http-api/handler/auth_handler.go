package handler

import (
	"net/http"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the signup/token routes; extra middleware such as
// rate limiting applies to the whole group.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	auth := router.Group("/auth", mw...)
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/token", h.ObtainToken)
	}
}

// Signup sends a confirmation code to the given email
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtainToken exchanges username + confirmation code for a JWT
// POST /api/v1/auth/token
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.ObtainToken(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
