package handler

import (
	"context"

	"yamdb/internal/http-api/dto"
	"yamdb/internal/http-api/middleware"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SignupResponse), args.Error(1)
}

func (m *MockAuthService) ObtainToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, actor policy.Actor, search string, page repository.Page) (*dto.Paginated[dto.UserResponse], error) {
	args := m.Called(ctx, actor, search, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.UserResponse]), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, actor policy.Actor, username string) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, actor policy.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, actor policy.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, actor policy.Actor, username string) error {
	return m.Called(ctx, actor, username).Error(0)
}

func (m *MockUserService) Me(ctx context.Context, actor policy.Actor) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) UpdateMe(ctx context.Context, actor policy.Actor, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) DeleteMe(ctx context.Context, actor policy.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockUserService) EnsureSuperuser(ctx context.Context, username, email string) error {
	return m.Called(ctx, username, email).Error(0)
}

type MockTaxonomyService struct {
	mock.Mock
}

func (m *MockTaxonomyService) List(ctx context.Context, actor policy.Actor, search string, page repository.Page) (*dto.Paginated[dto.TaxonomyResponse], error) {
	args := m.Called(ctx, actor, search, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.TaxonomyResponse]), args.Error(1)
}

func (m *MockTaxonomyService) Create(ctx context.Context, actor policy.Actor, req dto.TaxonomyRequest) (*dto.TaxonomyResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TaxonomyResponse), args.Error(1)
}

func (m *MockTaxonomyService) Update(ctx context.Context, actor policy.Actor, slug string, req dto.TaxonomyUpdateRequest) (*dto.TaxonomyResponse, error) {
	args := m.Called(ctx, actor, slug, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TaxonomyResponse), args.Error(1)
}

func (m *MockTaxonomyService) Delete(ctx context.Context, actor policy.Actor, slug string) error {
	return m.Called(ctx, actor, slug).Error(0)
}

type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, actor policy.Actor, query dto.TitleQuery, page repository.Page) (*dto.Paginated[dto.TitleResponse], error) {
	args := m.Called(ctx, actor, query, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.TitleResponse]), args.Error(1)
}

func (m *MockTitleService) Get(ctx context.Context, actor policy.Actor, id int64) (*dto.TitleResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, actor policy.Actor, req dto.TitleCreateRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, actor policy.Actor, id int64, req dto.TitleUpdateRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, actor policy.Actor, titleID int64, page repository.Page) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(ctx, actor, titleID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, actor policy.Actor, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, actor policy.Actor, titleID int64, req dto.ReviewRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.ReviewUpdateRequest) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, actor policy.Actor, titleID, reviewID int64) error {
	return m.Called(ctx, actor, titleID, reviewID).Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, actor policy.Actor, titleID, reviewID int64, page repository.Page) (*dto.Paginated[dto.CommentResponse], error) {
	args := m.Called(ctx, actor, titleID, reviewID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CommentResponse]), args.Error(1)
}

func (m *MockCommentService) Get(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, actor policy.Actor, titleID, reviewID int64, req dto.CommentRequest) (*dto.CommentResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64, req dto.CommentUpdateRequest) (*dto.CommentResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, commentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, actor policy.Actor, titleID, reviewID, commentID int64) error {
	return m.Called(ctx, actor, titleID, reviewID, commentID).Error(0)
}

func setupRouter(actor policy.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if actor.Authenticated() {
			middleware.WithActor(c, actor)
		}
		c.Next()
	})
	return router
}
