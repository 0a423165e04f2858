package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerFieldNames sync.Once

// useJSONFieldNames makes validator report fields by their json or form name.
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" {
				name, _, _ = strings.Cut(f.Tag.Get("form"), ",")
			}
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON decodes the body into req, writing a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	useJSONFieldNames()
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
		return false
	}
	return true
}

func bindingErrors(err error) map[string][]string {
	fields := make(map[string][]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		return fields
	}
	fields["non_field_errors"] = []string{"Malformed request: " + err.Error()}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value is at least %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

// respondError maps service and policy errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, policy.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	case errors.Is(err, policy.ErrMethodNotAllowed):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": fmt.Sprintf("Method %q not allowed.", c.Request.Method)})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, service.ErrDuplicateReview), errors.Is(err, service.ErrSlugInUse):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "Request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", middleware.RequestIDFrom(c.Request.Context()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}

// replaceNotAllowed answers PUT: full replacement is never supported.
func replaceNotAllowed(kind policy.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)
		respondError(c, policy.Authorize(actor, policy.ActionReplace, policy.Resource{Kind: kind}).Err())
	}
}

// pageFrom reads limit/offset; malformed values fall back to defaults.
func pageFrom(c *gin.Context) repository.Page {
	var page repository.Page
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		page.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		page.Offset = v
	}
	return page.Normalize()
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}
