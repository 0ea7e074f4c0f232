package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"filmrate/internal/auth"
	"filmrate/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ratingTestApp wires the rating routes behind AuthRequired with a stub user.
func ratingTestApp(t *testing.T, ratingRepo *MockRatingRepository) (*fiber.App, string) {
	t.Helper()
	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&models.User{ID: 1, Username: "alice", DisplayName: "Alice"}, nil)

	s := &Server{config: testConfig(), userRepo: userRepo, ratingRepo: ratingRepo}
	app := fiber.New()
	ratings := app.Group("/ratings", s.AuthRequired())
	ratings.Get("/", s.GetRatings)
	ratings.Post("/", s.SaveRating)
	ratings.Get("/stats", s.GetRatingStats)
	ratings.Get("/export", s.ExportRatings)
	ratings.Delete("/:tmdbID", s.DeleteRating)

	return app, "Bearer " + auth.IssueToken(testSecret, 1)
}

func TestSaveRatingValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing tmdb_id", map[string]any{"title": "x", "user_rating": 5}},
		{"missing title", map[string]any{"tmdb_id": 1, "user_rating": 5}},
		{"score too low", map[string]any{"tmdb_id": 1, "title": "x", "user_rating": 0}},
		{"score too high", map[string]any{"tmdb_id": 1, "title": "x", "user_rating": 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratingRepo := new(MockRatingRepository)
			app, authz := ratingTestApp(t, ratingRepo)

			req := jsonRequest(http.MethodPost, "/ratings/", tt.body)
			req.Header.Set("Authorization", authz)

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			ratingRepo.AssertNotCalled(t, "Save")
		})
	}
}

func TestSaveRatingNormalizesEmptyComment(t *testing.T) {
	ratingRepo := new(MockRatingRepository)
	ratingRepo.On("Save", mock.Anything, int64(1), mock.MatchedBy(func(in *models.RatingInput) bool {
		return in.Comment == nil
	})).Return(&models.Rating{ID: 1, TmdbID: 27205, UserRating: 9, MediaType: "movie"}, nil)

	app, authz := ratingTestApp(t, ratingRepo)

	req := jsonRequest(http.MethodPost, "/ratings/", map[string]any{
		"tmdb_id": 27205, "title": "Inception", "user_rating": 9, "comment": "",
	})
	req.Header.Set("Authorization", authz)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(27205), body["tmdb_id"])
	ratingRepo.AssertExpectations(t)
}

func TestGetRatings(t *testing.T) {
	ratingRepo := new(MockRatingRepository)
	ratingRepo.On("ListByUser", mock.Anything, int64(1)).Return([]models.Rating{
		{ID: 1, TmdbID: 27205, Title: "Inception", UserRating: 9, MediaType: "movie"},
	}, nil)

	app, authz := ratingTestApp(t, ratingRepo)

	req := httptest.NewRequest(http.MethodGet, "/ratings/", nil)
	req.Header.Set("Authorization", authz)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteRating(t *testing.T) {
	ratingRepo := new(MockRatingRepository)
	ratingRepo.On("Delete", mock.Anything, int64(1), int64(27205)).Return(nil)

	app, authz := ratingTestApp(t, ratingRepo)

	req := httptest.NewRequest(http.MethodDelete, "/ratings/27205", nil)
	req.Header.Set("Authorization", authz)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["ok"])
	ratingRepo.AssertExpectations(t)
}

func TestDeleteRatingBadID(t *testing.T) {
	ratingRepo := new(MockRatingRepository)
	app, authz := ratingTestApp(t, ratingRepo)

	req := httptest.NewRequest(http.MethodDelete, "/ratings/abc", nil)
	req.Header.Set("Authorization", authz)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	ratingRepo.AssertNotCalled(t, "Delete")
}

func TestGetRatingStats(t *testing.T) {
	genres := "Drama"
	ratingRepo := new(MockRatingRepository)
	ratingRepo.On("ListStatsRows", mock.Anything, int64(1)).Return([]models.StatsRow{
		{UserRating: 8, Genres: &genres, MediaType: "movie"},
		{UserRating: 6, MediaType: "tv"},
	}, nil)

	app, authz := ratingTestApp(t, ratingRepo)

	req := httptest.NewRequest(http.MethodGet, "/ratings/stats", nil)
	req.Header.Set("Authorization", authz)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(7), body["average"])
	byType := body["by_type"].(map[string]any)
	assert.Equal(t, float64(1), byType["movie"])
	assert.Equal(t, float64(1), byType["tv"])
}

func TestExportRatings(t *testing.T) {
	ratingRepo := new(MockRatingRepository)
	ratingRepo.On("ListForExport", mock.Anything, int64(1)).Return([]models.ExportRow{
		{TmdbID: 27205, Title: "Inception", UserRating: 9, MediaType: "movie"},
	}, nil)

	app, authz := ratingTestApp(t, ratingRepo)

	req := httptest.NewRequest(http.MethodGet, "/ratings/export", nil)
	req.Header.Set("Authorization", authz)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total_ratings"])
	assert.NotEmpty(t, body["export_date"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "Alice", user["display_name"])
}
