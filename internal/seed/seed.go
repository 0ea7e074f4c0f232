// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"filmrate/internal/auth"
	"filmrate/internal/models"
	"filmrate/internal/repository"
	"filmrate/internal/store"

	"github.com/brianvoe/gofakeit/v6"
)

// demoPassword is the shared password for all seeded accounts.
const demoPassword = "password123"

type catalogEntry struct {
	tmdbID     int64
	title      string
	year       int64
	posterPath string
	tmdbRating float64
	genres     string
	mediaType  string
}

// A small fixed slice of real catalog items so seeded ratings carry
// plausible metadata without calling the upstream API.
var catalogEntries = []catalogEntry{
	{278, "The Shawshank Redemption", 1994, "/q6y0Go1tsGEsmtFryDOJo3dEmqu.jpg", 8.7, "Drama, Crime", "movie"},
	{238, "The Godfather", 1972, "/3bhkrj58Vtu7enYsRolD1fZdja1.jpg", 8.7, "Drama, Crime", "movie"},
	{680, "Pulp Fiction", 1994, "/d5iIlFn5s0ImszYzBPb8JPIfbXD.jpg", 8.5, "Thriller, Crime", "movie"},
	{550, "Fight Club", 1999, "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg", 8.4, "Drama", "movie"},
	{27205, "Inception", 2010, "/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg", 8.4, "Action, Science Fiction, Adventure", "movie"},
	{157336, "Interstellar", 2014, "/gEU2QniE6E77NI6lCU6MxlNBvIx.jpg", 8.4, "Adventure, Drama, Science Fiction", "movie"},
	{603, "The Matrix", 1999, "/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg", 8.2, "Action, Science Fiction", "movie"},
	{120, "The Lord of the Rings: The Fellowship of the Ring", 2001, "/6oom5QYQ2yQTMJIbnvbkBL9cHo6.jpg", 8.4, "Adventure, Fantasy, Action", "movie"},
	{424, "Schindler's List", 1993, "/sF1U4EUQS8YHUYjNl3pMGNIQyr0.jpg", 8.6, "Drama, History, War", "movie"},
	{496243, "Parasite", 2019, "/7IiTTgloJzvGI1TAYymCfbfl3vT.jpg", 8.5, "Comedy, Thriller, Drama", "movie"},
	{1396, "Breaking Bad", 2008, "/ggFHVNu6YYI5L9pCfOacjizRGt.jpg", 8.9, "Drama, Crime", "tv"},
	{1399, "Game of Thrones", 2011, "/1XS1oqL89opfnbLl8WnZY1O1uJx.jpg", 8.5, "Sci-Fi & Fantasy, Drama, Action & Adventure", "tv"},
	{66732, "Stranger Things", 2016, "/49WJfeN0moxb9IPfGn8AIqMGskD.jpg", 8.6, "Drama, Sci-Fi & Fantasy, Mystery", "tv"},
	{1398, "The Sopranos", 1999, "/rTc7ZXdroqjkKivFPvCPX0Ru7uw.jpg", 8.7, "Drama", "tv"},
	{60625, "Rick and Morty", 2013, "/gdIrmf2DdY5mgN6ycVP0XlzKzbE.jpg", 8.7, "Animation, Comedy, Sci-Fi & Fantasy", "tv"},
}

// Seeder creates demo users, ratings, and watchlist entries through the
// repositories so seeded data obeys the same rules as API writes.
type Seeder struct {
	users     repository.UserRepository
	ratings   repository.RatingRepository
	watchlist repository.WatchlistRepository
}

// NewSeeder creates a new Seeder bound to the provided store client.
func NewSeeder(st *store.Client) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		users:     repository.NewUserRepository(st),
		ratings:   repository.NewRatingRepository(st),
		watchlist: repository.NewWatchlistRepository(st),
	}
}

// Run creates numUsers demo accounts, each with up to maxRatings ratings and
// a few watchlist entries. All accounts share the demo password.
func (s *Seeder) Run(ctx context.Context, numUsers, maxRatings int) error {
	hashed, err := auth.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	if maxRatings <= 0 || maxRatings > len(catalogEntries) {
		maxRatings = len(catalogEntries)
	}

	for i := 0; i < numUsers; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i)
		displayName := gofakeit.Name()
		email := fmt.Sprintf("%s@%s", username, gofakeit.DomainName())

		user, err := s.users.Create(ctx, username, hashed, displayName, email)
		if err != nil {
			return fmt.Errorf("create user %q: %w", username, err)
		}

		rated, err := s.seedRatings(ctx, user.ID, maxRatings)
		if err != nil {
			return err
		}
		if err := s.seedWatchlist(ctx, user.ID, rated); err != nil {
			return err
		}

		log.Printf("seeded user %s (%d ratings)", username, len(rated))
	}
	return nil
}

// seedRatings rates a random prefix of a shuffled catalog and returns the
// rated entry indexes so the watchlist can avoid duplicates.
func (s *Seeder) seedRatings(ctx context.Context, userID int64, maxRatings int) (map[int]bool, error) {
	order := rand.Perm(len(catalogEntries))
	count := 1 + rand.IntN(maxRatings)

	rated := make(map[int]bool, count)
	for _, idx := range order[:count] {
		entry := catalogEntries[idx]
		input := &models.RatingInput{
			TmdbID:     entry.tmdbID,
			Title:      entry.title,
			Year:       ptr(entry.year),
			PosterPath: ptr(entry.posterPath),
			TmdbRating: ptr(entry.tmdbRating),
			UserRating: int64(1 + rand.IntN(10)),
			Genres:     ptr(entry.genres),
			MediaType:  entry.mediaType,
		}
		if rand.IntN(2) == 0 {
			input.Comment = ptr(gofakeit.Sentence(8))
		}
		if _, err := s.ratings.Save(ctx, userID, input); err != nil {
			return nil, fmt.Errorf("seed rating %d: %w", entry.tmdbID, err)
		}
		rated[idx] = true
	}
	return rated, nil
}

func (s *Seeder) seedWatchlist(ctx context.Context, userID int64, rated map[int]bool) error {
	added := 0
	for idx, entry := range catalogEntries {
		if added >= 3 {
			break
		}
		if rated[idx] || rand.IntN(2) == 0 {
			continue
		}
		input := &models.WatchlistInput{
			TmdbID:     entry.tmdbID,
			Title:      entry.title,
			Year:       ptr(entry.year),
			PosterPath: ptr(entry.posterPath),
			TmdbRating: ptr(entry.tmdbRating),
			Genres:     ptr(entry.genres),
			MediaType:  entry.mediaType,
		}
		if _, err := s.watchlist.Add(ctx, userID, input); err != nil {
			return fmt.Errorf("seed watchlist %d: %w", entry.tmdbID, err)
		}
		added++
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
