package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yamdb/database"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/http-api/service"
	"yamdb/internal/middleware/auth"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// captureNotifier hands every dispatched code to the test.
type captureNotifier struct {
	codes chan string
}

func (n *captureNotifier) Send(_ context.Context, _ string, code string) error {
	n.codes <- code
	return nil
}

type APITestSuite struct {
	suite.Suite
	router   *gin.Engine
	notifier *captureNotifier
	issuer   *auth.Issuer
	users    repository.UserRepository
	admin    string
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.OpenSQLite("file::memory:", nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { database.Close(db) })

	tx := repository.NewTransactor(db)
	s.users = repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	genres := repository.NewGenreRepository(db)
	titles := repository.NewTitleRepository(db)
	reviews := repository.NewReviewRepository(db)
	comments := repository.NewCommentRepository(db)

	s.notifier = &captureNotifier{codes: make(chan string, 4)}
	s.issuer = auth.NewIssuer(testSecret, time.Hour)
	ratings := service.NewRatingService(titles, reviews, tx, logger)
	userService := service.NewUserService(s.users, logger)

	s.Require().NoError(userService.EnsureSuperuser(context.Background(), "root", "root@example.com"))
	root, err := s.users.FindByUsername(context.Background(), "root")
	s.Require().NoError(err)
	s.admin, err = s.issuer.Issue(root.ID, string(root.Role))
	s.Require().NoError(err)

	s.router = NewRouter(Services{
		Auth:       service.NewAuthService(s.users, s.issuer, s.notifier, service.AuthOptions{CodeLength: 16, SingleUseCode: true}, logger),
		Users:      userService,
		Categories: service.NewCategoryService(categories, logger),
		Genres:     service.NewGenreService(genres, logger),
		Titles:     service.NewTitleService(titles, categories, genres, tx, logger),
		Reviews:    service.NewReviewService(reviews, titles, ratings, tx, logger),
		Comments:   service.NewCommentService(comments, reviews, logger),
	}, RouterOptions{
		Tokens:      s.issuer,
		Users:       s.users,
		AuthLimiter: middleware.NewRateLimiter(100, 100),
		Logger:      logger,
	})
}

func (s *APITestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APITestSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// signup registers username and exchanges the mailed code for a token.
func (s *APITestSuite) signup(username string) string {
	w := s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var code string
	select {
	case code = <-s.notifier.codes:
	case <-time.After(2 * time.Second):
		s.FailNow("confirmation code was not dispatched")
	}

	w = s.do(http.MethodPost, "/api/v1/auth/token", "", map[string]string{
		"username":          username,
		"confirmation_code": code,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	token, _ := s.decode(w)["token"].(string)
	s.Require().NotEmpty(token)
	return token
}

func (s *APITestSuite) TestHealthCheck() {
	w := s.do(http.MethodGet, "/check-conn", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get(middleware.RequestIDHeader))
}

func (s *APITestSuite) TestUnknownRouteAndMethod() {
	w := s.do(http.MethodGet, "/api/v1/nothing-here", "", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/titles/1", s.admin, map[string]string{})
	s.Equal(http.StatusMethodNotAllowed, w.Code)
}

func (s *APITestSuite) TestReviewLifecycle() {
	alice := s.signup("alice")
	bob := s.signup("bob")

	w := s.do(http.MethodPost, "/api/v1/categories", s.admin, map[string]string{"name": "Movie", "slug": "movie"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, "/api/v1/genres", s.admin, map[string]string{"name": "Drama", "slug": "drama"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/titles", alice, map[string]any{"name": "Heat", "year": 1995})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/titles", s.admin, map[string]any{
		"name": "Heat", "year": 1995, "category": "movie", "genre": []string{"drama"},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	title := s.decode(w)
	s.Nil(title["rating"])
	titlePath := fmt.Sprintf("/api/v1/titles/%v", title["id"])

	w = s.do(http.MethodPost, titlePath+"/reviews", alice, map[string]any{"text": "Great", "score": 8})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	review := s.decode(w)
	s.Equal("alice", review["author"])

	w = s.do(http.MethodPost, titlePath+"/reviews", alice, map[string]any{"text": "Again", "score": 2})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, titlePath+"/reviews", bob, map[string]any{"text": "Fine", "score": 4})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, titlePath, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(6, s.decode(w)["rating"])

	reviewPath := fmt.Sprintf("%s/reviews/%v", titlePath, review["id"])
	w = s.do(http.MethodPatch, reviewPath, bob, map[string]any{"score": 1})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, reviewPath+"/comments", bob, map[string]string{"text": "Agreed"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, reviewPath+"/comments", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, s.decode(w)["count"])

	w = s.do(http.MethodDelete, reviewPath, alice, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, titlePath, "", nil)
	s.EqualValues(4, s.decode(w)["rating"])

	w = s.do(http.MethodPut, titlePath, s.admin, map[string]any{"name": "Heat", "year": 1995})
	s.Equal(http.StatusMethodNotAllowed, w.Code)
}

func (s *APITestSuite) TestAuthentication() {
	w := s.do(http.MethodGet, "/api/v1/users/me", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/me", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.NotEmpty(w.Header().Get("WWW-Authenticate"))

	carol := s.signup("carol")
	w = s.do(http.MethodGet, "/api/v1/users/me", carol, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("carol", s.decode(w)["username"])

	w = s.do(http.MethodGet, "/api/v1/users", carol, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users?search=car", s.admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, s.decode(w)["count"])

	w = s.do(http.MethodDelete, "/api/v1/users/root", s.admin, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func TestAuthRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Services{}, RouterOptions{
		Tokens:      auth.NewIssuer(testSecret, time.Hour),
		AuthLimiter: middleware.NewRateLimiter(0.001, 1),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	// the first request spends the burst and fails binding before any service call
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBufferString("{}")))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBufferString("{}")))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))
}
