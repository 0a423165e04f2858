package service

import (
	"context"
	"io"
	"log/slog"

	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/repository"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page repository.Page) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetConfirmationCode(ctx context.Context, id, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *MockUserRepository) ConsumeConfirmationCode(ctx context.Context, id, code string) (bool, error) {
	args := m.Called(ctx, id, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Activate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotifier mocks the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

// MockTokenIssuer mocks the TokenIssuer interface
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

// MockTitleRepository mocks the TitleRepository interface
type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) List(ctx context.Context, filter repository.TitleFilter, page repository.Page) ([]models.Title, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Title), args.Get(1).(int64), args.Error(2)
}

func (m *MockTitleRepository) FindByID(ctx context.Context, id int64) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleRepository) Create(ctx context.Context, title *models.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleRepository) Update(ctx context.Context, title *models.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockTitleRepository) ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	args := m.Called(ctx, title, genres)
	return args.Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTitleRepository) SetRating(ctx context.Context, id int64, rating *float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

func (m *MockTitleRepository) LockForUpdate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTitleRepository) ListIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) ListByTitle(ctx context.Context, titleID int64, page repository.Page) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ExistsForAuthor(ctx context.Context, titleID int64, authorID string) (bool, error) {
	args := m.Called(ctx, titleID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, reviewID int64) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

func (m *MockReviewRepository) AverageScore(ctx context.Context, titleID int64) (*float64, error) {
	args := m.Called(ctx, titleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

// MockRatingService mocks the RatingService interface
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Recompute(ctx context.Context, titleID int64) error {
	args := m.Called(ctx, titleID)
	return args.Error(0)
}

func (m *MockRatingService) RecomputeAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type inTxKey struct{}

// fakeTransactor marks the ctx handed to fn so mocks can tell transactional
// calls apart. It does not roll anything back.
type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, inTxKey{}, true))
}

func inTx(ctx context.Context) bool {
	marked, _ := ctx.Value(inTxKey{}).(bool)
	return marked
}

func outsideTx(ctx context.Context) bool { return !inTx(ctx) }
