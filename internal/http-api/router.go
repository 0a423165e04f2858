// Package httpapi assembles the REST API: middleware chain, health check and
// the versioned resource routes.
package httpapi

import (
	"log/slog"
	"net/http"

	"yamdb/internal/http-api/handler"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	Categories service.TaxonomyService
	Genres     service.TaxonomyService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService
}

type RouterOptions struct {
	Tokens middleware.TokenParser
	Users  middleware.UserLoader
	// AuthLimiter throttles /auth per client; nil disables it.
	AuthLimiter *middleware.RateLimiter
	Logger      *slog.Logger
}

// NewRouter builds the gin engine serving /check-conn and /api/v1.
func NewRouter(services Services, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method \"" + c.Request.Method + "\" not allowed."})
	})

	r.GET("/check-conn", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is alive"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Authenticate(opts.Tokens, opts.Users))
	{
		var authMW []gin.HandlerFunc
		if opts.AuthLimiter != nil {
			authMW = append(authMW, opts.AuthLimiter.Handler())
		}
		handler.NewAuthHandler(services.Auth).RegisterRoutes(v1, authMW...)
		handler.NewUserHandler(services.Users).RegisterRoutes(v1)
		handler.NewCategoryHandler(services.Categories).RegisterRoutes(v1)
		handler.NewGenreHandler(services.Genres).RegisterRoutes(v1)

		titles := v1.Group("/titles")
		handler.NewTitleHandler(services.Titles).RegisterRoutes(titles)
		handler.NewReviewHandler(services.Reviews).RegisterRoutes(titles)
		handler.NewCommentHandler(services.Comments).RegisterRoutes(titles)
	}

	return r
}
