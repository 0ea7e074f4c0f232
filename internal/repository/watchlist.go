package repository

import (
	"context"
	"fmt"

	"filmrate/internal/models"
	"filmrate/internal/store"
)

// WatchlistRepository defines persistence operations for watchlist entries.
type WatchlistRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.WatchlistItem, error)
	Exists(ctx context.Context, userID, tmdbID int64) (bool, error)
	Add(ctx context.Context, userID int64, in *models.WatchlistInput) (*models.WatchlistItem, error)
	Remove(ctx context.Context, userID, tmdbID int64) error
}

type watchlistRepository struct {
	db *store.Client
}

// NewWatchlistRepository returns a new WatchlistRepository implementation.
func NewWatchlistRepository(db *store.Client) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) ListByUser(ctx context.Context, userID int64) ([]models.WatchlistItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tmdb_id, title, year, poster_path, tmdb_rating,
			genres, overview, media_type, created_at FROM watchlist
			WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	items := make([]models.WatchlistItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, *scanWatchlistItem(row))
	}
	return items, nil
}

func (r *watchlistRepository) Exists(ctx context.Context, userID, tmdbID int64) (bool, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id FROM watchlist WHERE user_id = ? AND tmdb_id = ?", userID, tmdbID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return len(rows) > 0, nil
}

// Add inserts the entry and re-reads it. A racing duplicate slips past the
// caller's Exists check and lands on the unique constraint, which maps to the
// same conflict the pre-check would have reported.
func (r *watchlistRepository) Add(ctx context.Context, userID int64, in *models.WatchlistInput) (*models.WatchlistItem, error) {
	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = "movie"
	}

	err := r.db.Exec(ctx,
		`INSERT INTO watchlist (user_id, tmdb_id, title, year, poster_path, tmdb_rating,
			genres, overview, media_type) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, in.TmdbID, in.Title, in.Year, in.PosterPath,
		in.TmdbRating, in.Genres, in.Overview, mediaType)
	if err != nil {
		if store.IsConstraintViolation(err) {
			return nil, models.NewConflictError("Already in watchlist")
		}
		return nil, models.NewInternalError(err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, tmdb_id, title, year, poster_path, tmdb_rating,
			genres, overview, media_type, created_at FROM watchlist
			WHERE user_id = ? AND tmdb_id = ?`,
		userID, in.TmdbID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, models.NewInternalError(fmt.Errorf("watchlist entry (%d, %d) missing after insert", userID, in.TmdbID))
	}
	return scanWatchlistItem(rows[0]), nil
}

func (r *watchlistRepository) Remove(ctx context.Context, userID, tmdbID int64) error {
	if err := r.db.Exec(ctx,
		"DELETE FROM watchlist WHERE user_id = ? AND tmdb_id = ?", userID, tmdbID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func scanWatchlistItem(row store.Row) *models.WatchlistItem {
	mediaType := row.String("media_type")
	if mediaType == "" {
		mediaType = "movie"
	}
	return &models.WatchlistItem{
		ID:         row.Int("id"),
		UserID:     row.Int("user_id"),
		TmdbID:     row.Int("tmdb_id"),
		Title:      row.String("title"),
		Year:       row.NullInt("year"),
		PosterPath: row.NullString("poster_path"),
		TmdbRating: row.NullFloat("tmdb_rating"),
		Genres:     row.NullString("genres"),
		Overview:   row.NullString("overview"),
		MediaType:  mediaType,
		CreatedAt:  row.String("created_at"),
	}
}
