package repository

import (
	"context"
	"fmt"

	"filmrate/internal/models"
	"filmrate/internal/store"
)

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Rating, error)
	GetByUserAndTmdbID(ctx context.Context, userID, tmdbID int64) (*models.Rating, error)
	Save(ctx context.Context, userID int64, in *models.RatingInput) (*models.Rating, error)
	Delete(ctx context.Context, userID, tmdbID int64) error
	ListStatsRows(ctx context.Context, userID int64) ([]models.StatsRow, error)
	ListForExport(ctx context.Context, userID int64) ([]models.ExportRow, error)
}

type ratingRepository struct {
	db *store.Client
}

// NewRatingRepository returns a new RatingRepository implementation.
func NewRatingRepository(db *store.Client) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Rating, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tmdb_id, title, year, poster_path, tmdb_rating,
			user_rating, comment, genres, overview, media_type, created_at FROM ratings
			WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	ratings := make([]models.Rating, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, *scanRating(row))
	}
	return ratings, nil
}

func (r *ratingRepository) GetByUserAndTmdbID(ctx context.Context, userID, tmdbID int64) (*models.Rating, error) {
	rows, err := r.db.Query(ctx,
		"SELECT * FROM ratings WHERE user_id = ? AND tmdb_id = ?", userID, tmdbID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return scanRating(rows[0]), nil
}

// Save updates in place when a rating for (user, tmdb_id) exists, inserts
// otherwise, and always re-reads and returns the resulting row. A concurrent
// duplicate insert races the store's unique constraint.
func (r *ratingRepository) Save(ctx context.Context, userID int64, in *models.RatingInput) (*models.Rating, error) {
	mediaType := in.MediaType
	if mediaType == "" {
		mediaType = "movie"
	}

	existing, err := r.db.Query(ctx,
		"SELECT id FROM ratings WHERE user_id = ? AND tmdb_id = ?", userID, in.TmdbID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if len(existing) > 0 {
		err = r.db.Exec(ctx,
			`UPDATE ratings SET user_rating = ?, comment = ?, media_type = ?,
				updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND tmdb_id = ?`,
			in.UserRating, in.Comment, mediaType, userID, in.TmdbID)
	} else {
		err = r.db.Exec(ctx,
			`INSERT INTO ratings (user_id, tmdb_id, title, year, poster_path, tmdb_rating,
				user_rating, comment, genres, overview, media_type) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, in.TmdbID, in.Title, in.Year, in.PosterPath,
			in.TmdbRating, in.UserRating, in.Comment, in.Genres, in.Overview, mediaType)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	saved, err := r.GetByUserAndTmdbID(ctx, userID, in.TmdbID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, models.NewInternalError(fmt.Errorf("rating (%d, %d) missing after save", userID, in.TmdbID))
	}
	return saved, nil
}

func (r *ratingRepository) Delete(ctx context.Context, userID, tmdbID int64) error {
	if err := r.db.Exec(ctx,
		"DELETE FROM ratings WHERE user_id = ? AND tmdb_id = ?", userID, tmdbID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *ratingRepository) ListStatsRows(ctx context.Context, userID int64) ([]models.StatsRow, error) {
	rows, err := r.db.Query(ctx,
		"SELECT user_rating, genres, media_type, year FROM ratings WHERE user_id = ?", userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	stats := make([]models.StatsRow, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, models.StatsRow{
			UserRating: row.Int("user_rating"),
			Genres:     row.NullString("genres"),
			MediaType:  row.String("media_type"),
			Year:       row.NullInt("year"),
		})
	}
	return stats, nil
}

func (r *ratingRepository) ListForExport(ctx context.Context, userID int64) ([]models.ExportRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tmdb_id, title, year, poster_path, tmdb_rating,
			user_rating, genres, overview, media_type, created_at, updated_at
			FROM ratings WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	export := make([]models.ExportRow, 0, len(rows))
	for _, row := range rows {
		export = append(export, models.ExportRow{
			TmdbID:     row.Int("tmdb_id"),
			Title:      row.String("title"),
			Year:       row.NullInt("year"),
			PosterPath: row.NullString("poster_path"),
			TmdbRating: row.NullFloat("tmdb_rating"),
			UserRating: row.Int("user_rating"),
			Genres:     row.NullString("genres"),
			Overview:   row.NullString("overview"),
			MediaType:  row.String("media_type"),
			CreatedAt:  row.String("created_at"),
			UpdatedAt:  row.String("updated_at"),
		})
	}
	return export, nil
}

func scanRating(row store.Row) *models.Rating {
	mediaType := row.String("media_type")
	if mediaType == "" {
		mediaType = "movie"
	}
	return &models.Rating{
		ID:         row.Int("id"),
		UserID:     row.Int("user_id"),
		TmdbID:     row.Int("tmdb_id"),
		Title:      row.String("title"),
		Year:       row.NullInt("year"),
		PosterPath: row.NullString("poster_path"),
		TmdbRating: row.NullFloat("tmdb_rating"),
		UserRating: row.Int("user_rating"),
		Comment:    row.NullString("comment"),
		Genres:     row.NullString("genres"),
		Overview:   row.NullString("overview"),
		MediaType:  mediaType,
		CreatedAt:  row.String("created_at"),
		UpdatedAt:  row.String("updated_at"),
	}
}
