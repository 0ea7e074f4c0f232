package server

import (
	"context"

	"filmrate/internal/models"
	"filmrate/internal/tmdb"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, username, hashedPassword, displayName, email string) (*models.User, error) {
	args := m.Called(ctx, username, hashedPassword, displayName, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateDisplayName(ctx context.Context, id int64, displayName string) error {
	args := m.Called(ctx, id, displayName)
	return args.Error(0)
}

// MockRatingRepository is a mock of the RatingRepository interface
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) GetByUserAndTmdbID(ctx context.Context, userID, tmdbID int64) (*models.Rating, error) {
	args := m.Called(ctx, userID, tmdbID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) Save(ctx context.Context, userID int64, in *models.RatingInput) (*models.Rating, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) Delete(ctx context.Context, userID, tmdbID int64) error {
	args := m.Called(ctx, userID, tmdbID)
	return args.Error(0)
}

func (m *MockRatingRepository) ListStatsRows(ctx context.Context, userID int64) ([]models.StatsRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatsRow), args.Error(1)
}

func (m *MockRatingRepository) ListForExport(ctx context.Context, userID int64) ([]models.ExportRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExportRow), args.Error(1)
}

// MockWatchlistRepository is a mock of the WatchlistRepository interface
type MockWatchlistRepository struct {
	mock.Mock
}

func (m *MockWatchlistRepository) ListByUser(ctx context.Context, userID int64) ([]models.WatchlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WatchlistItem), args.Error(1)
}

func (m *MockWatchlistRepository) Exists(ctx context.Context, userID, tmdbID int64) (bool, error) {
	args := m.Called(ctx, userID, tmdbID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWatchlistRepository) Add(ctx context.Context, userID int64, in *models.WatchlistInput) (*models.WatchlistItem, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WatchlistItem), args.Error(1)
}

func (m *MockWatchlistRepository) Remove(ctx context.Context, userID, tmdbID int64) error {
	args := m.Called(ctx, userID, tmdbID)
	return args.Error(0)
}

// MockCatalog is a mock of the service.Catalog interface
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Trending(ctx context.Context) ([]tmdb.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tmdb.Item), args.Error(1)
}

func (m *MockCatalog) Search(ctx context.Context, query string) ([]tmdb.Item, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tmdb.Item), args.Error(1)
}

func (m *MockCatalog) TopRated(ctx context.Context) ([]tmdb.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tmdb.Item), args.Error(1)
}

func (m *MockCatalog) Detail(ctx context.Context, id int64, mediaType string) (tmdb.Item, error) {
	args := m.Called(ctx, id, mediaType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(tmdb.Item), args.Error(1)
}
