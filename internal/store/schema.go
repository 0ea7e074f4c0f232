package store

import "context"

// schemaStatements create the application tables. (user_id, tmdb_id)
// uniqueness lives here, in the store, not in the application.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE,
		hashed_password TEXT NOT NULL,
		display_name TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		media_type TEXT DEFAULT 'movie',
		tmdb_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		year INTEGER,
		poster_path TEXT,
		tmdb_rating REAL,
		user_rating INTEGER NOT NULL,
		comment TEXT,
		genres TEXT,
		overview TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, tmdb_id)
	)`,
	`CREATE TABLE IF NOT EXISTS watchlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		media_type TEXT DEFAULT 'movie',
		tmdb_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		year INTEGER,
		poster_path TEXT,
		tmdb_rating REAL,
		genres TEXT,
		overview TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, tmdb_id)
	)`,
}

// EnsureSchema creates the application tables if they do not exist. Each
// statement is its own pipeline call; there is no multi-statement transaction.
func EnsureSchema(ctx context.Context, c *Client) error {
	for _, stmt := range schemaStatements {
		if err := c.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
