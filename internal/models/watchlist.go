package models

// WatchlistItem is a bookmarked catalog item, unique per (user, tmdb_id).
// Shares the cached-metadata shape of Rating minus the score and comment.
type WatchlistItem struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"-"`
	TmdbID     int64    `json:"tmdb_id"`
	Title      string   `json:"title"`
	Year       *int64   `json:"year"`
	PosterPath *string  `json:"poster_path"`
	TmdbRating *float64 `json:"tmdb_rating"`
	Genres     *string  `json:"genres"`
	Overview   *string  `json:"overview"`
	MediaType  string   `json:"media_type"`
	CreatedAt  string   `json:"created_at"`
}

// WatchlistInput is the payload accepted by the watchlist insert endpoint.
type WatchlistInput struct {
	TmdbID     int64    `json:"tmdb_id"`
	Title      string   `json:"title"`
	Year       *int64   `json:"year"`
	PosterPath *string  `json:"poster_path"`
	TmdbRating *float64 `json:"tmdb_rating"`
	Genres     *string  `json:"genres"`
	Overview   *string  `json:"overview"`
	MediaType  string   `json:"media_type"`
}
