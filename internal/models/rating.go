package models

// Rating is a user's score for one catalog item, unique per (user, tmdb_id).
// Catalog metadata is cached at write time and never refreshed from upstream.
type Rating struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"-"`
	TmdbID     int64    `json:"tmdb_id"`
	Title      string   `json:"title"`
	Year       *int64   `json:"year"`
	PosterPath *string  `json:"poster_path"`
	TmdbRating *float64 `json:"tmdb_rating"`
	UserRating int64    `json:"user_rating"`
	Comment    *string  `json:"comment"`
	Genres     *string  `json:"genres"`
	Overview   *string  `json:"overview"`
	MediaType  string   `json:"media_type"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

// RatingInput is the payload accepted by the rating upsert endpoint.
type RatingInput struct {
	TmdbID     int64    `json:"tmdb_id"`
	Title      string   `json:"title"`
	Year       *int64   `json:"year"`
	PosterPath *string  `json:"poster_path"`
	TmdbRating *float64 `json:"tmdb_rating"`
	UserRating int64    `json:"user_rating"`
	Comment    *string  `json:"comment"`
	Genres     *string  `json:"genres"`
	Overview   *string  `json:"overview"`
	MediaType  string   `json:"media_type"`
}

// ExportRow is the rating projection included in a user's data export.
type ExportRow struct {
	TmdbID     int64    `json:"tmdb_id"`
	Title      string   `json:"title"`
	Year       *int64   `json:"year"`
	PosterPath *string  `json:"poster_path"`
	TmdbRating *float64 `json:"tmdb_rating"`
	UserRating int64    `json:"user_rating"`
	Genres     *string  `json:"genres"`
	Overview   *string  `json:"overview"`
	MediaType  string   `json:"media_type"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

// StatsRow is the projection of a rating used by the stats aggregation.
type StatsRow struct {
	UserRating int64
	Genres     *string
	MediaType  string
	Year       *int64
}
