// Package service holds the catalog proxy and stats aggregation logic that
// sits between the HTTP handlers and the upstream/store clients.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"

	"filmrate/internal/cache"
	"filmrate/internal/tmdb"

	"github.com/redis/go-redis/v9"
)

const (
	trendingLimit  = 20
	topRatedLimit  = 20
	topRatedPerSrc = 10

	fallbackTitle = "Untitled"
)

// API is the slice of the TMDB client the catalog service depends on.
type API interface {
	TrendingMovies(ctx context.Context) ([]tmdb.Item, error)
	TrendingTV(ctx context.Context) ([]tmdb.Item, error)
	SearchMovies(ctx context.Context, query string) ([]tmdb.Item, error)
	SearchTV(ctx context.Context, query string) ([]tmdb.Item, error)
	TopRatedMovies(ctx context.Context) ([]tmdb.Item, error)
	TopRatedTV(ctx context.Context) ([]tmdb.Item, error)
	MovieDetail(ctx context.Context, id int64) (tmdb.Item, error)
	TVDetail(ctx context.Context, id int64) (tmdb.Item, error)
}

// Catalog merges movie and TV results from the upstream catalog into the
// movie-shaped lists the front end renders.
type Catalog interface {
	Trending(ctx context.Context) ([]tmdb.Item, error)
	Search(ctx context.Context, query string) ([]tmdb.Item, error)
	TopRated(ctx context.Context) ([]tmdb.Item, error)
	Detail(ctx context.Context, id int64, mediaType string) (tmdb.Item, error)
}

type catalog struct {
	api   API
	redis *redis.Client
}

// NewCatalog returns a Catalog over the given upstream client. The redis
// client is optional; with nil every call goes straight upstream.
func NewCatalog(api API, rdb *redis.Client) Catalog {
	return &catalog{api: api, redis: rdb}
}

// Trending merges this week's trending movies and TV shows. The merged list
// is cached pre-shuffle so each request still gets a fresh ordering.
func (s *catalog) Trending(ctx context.Context) ([]tmdb.Item, error) {
	var merged []tmdb.Item
	err := cache.Aside(ctx, s.redis, cache.TrendingKey, &merged, cache.ListTTL, func() error {
		movies, shows := s.fetchPair(ctx, "trending", s.api.TrendingMovies, s.api.TrendingTV)
		merged = mergeLists(movies, shows, 0)
		return nil
	})
	if err != nil {
		return nil, err
	}

	shuffled := make([]tmdb.Item, len(merged))
	copy(shuffled, merged)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return capList(shuffled, trendingLimit), nil
}

// Search merges movie and TV search results, sorted by popularity.
func (s *catalog) Search(ctx context.Context, query string) ([]tmdb.Item, error) {
	var results []tmdb.Item
	err := cache.Aside(ctx, s.redis, cache.SearchKey(query), &results, cache.ListTTL, func() error {
		movies, shows := s.fetchPair(ctx, "search",
			func(ctx context.Context) ([]tmdb.Item, error) { return s.api.SearchMovies(ctx, query) },
			func(ctx context.Context) ([]tmdb.Item, error) { return s.api.SearchTV(ctx, query) },
		)
		results = mergeLists(movies, shows, 0)
		sortByField(results, "popularity")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// TopRated takes the first ten of each top-rated list and merges them by
// vote average.
func (s *catalog) TopRated(ctx context.Context) ([]tmdb.Item, error) {
	var results []tmdb.Item
	err := cache.Aside(ctx, s.redis, cache.TopRatedKey, &results, cache.ListTTL, func() error {
		movies, shows := s.fetchPair(ctx, "top_rated", s.api.TopRatedMovies, s.api.TopRatedTV)
		results = mergeLists(movies, shows, topRatedPerSrc)
		sortByField(results, "vote_average")
		results = capList(results, topRatedLimit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Detail looks up one item. media_type=tv goes straight to the TV catalog;
// anything else tries the movie catalog first and falls back to TV, since
// the front end does not always know which catalog an id came from.
// Returns tmdb.ErrNotFound when neither catalog matches.
func (s *catalog) Detail(ctx context.Context, id int64, mediaType string) (tmdb.Item, error) {
	var item tmdb.Item
	err := cache.Aside(ctx, s.redis, cache.DetailKey(mediaType, id), &item, cache.DetailTTL, func() error {
		var err error
		item, err = s.fetchDetail(ctx, id, mediaType)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalog) fetchDetail(ctx context.Context, id int64, mediaType string) (tmdb.Item, error) {
	if mediaType == "tv" {
		item, err := s.api.TVDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		normalizeTV(item)
		return item, nil
	}

	item, err := s.api.MovieDetail(ctx, id)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, tmdb.ErrNotFound) {
		return nil, err
	}
	item, err = s.api.TVDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	normalizeTV(item)
	return item, nil
}

type listFunc func(ctx context.Context) ([]tmdb.Item, error)

// fetchPair runs the movie and TV fetches concurrently. A failed list is
// logged and contributes nothing, so one flaky upstream endpoint degrades
// the merge instead of failing it.
func (s *catalog) fetchPair(ctx context.Context, name string, movies, shows listFunc) ([]tmdb.Item, []tmdb.Item) {
	var (
		wg                  sync.WaitGroup
		movieItems, tvItems []tmdb.Item
		movieErr, tvErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		movieItems, movieErr = movies(ctx)
	}()
	go func() {
		defer wg.Done()
		tvItems, tvErr = shows(ctx)
	}()
	wg.Wait()

	if movieErr != nil {
		slog.WarnContext(ctx, "movie list fetch failed",
			slog.String("list", name), slog.String("error", movieErr.Error()))
		movieItems = nil
	}
	if tvErr != nil {
		slog.WarnContext(ctx, "tv list fetch failed",
			slog.String("list", name), slog.String("error", tvErr.Error()))
		tvItems = nil
	}
	return movieItems, tvItems
}

// mergeLists tags and filters both lists and concatenates them, movies
// first. perSource > 0 caps each list before filtering.
func mergeLists(movies, shows []tmdb.Item, perSource int) []tmdb.Item {
	movies = capList(movies, perSource)
	shows = capList(shows, perSource)

	merged := make([]tmdb.Item, 0, len(movies)+len(shows))
	for _, item := range movies {
		if !hasPoster(item) {
			continue
		}
		item["media_type"] = "movie"
		merged = append(merged, item)
	}
	for _, item := range shows {
		if !hasPoster(item) {
			continue
		}
		normalizeTV(item)
		merged = append(merged, item)
	}
	return merged
}

// normalizeTV maps TV-specific field names onto the movie-shaped fields the
// front end reads.
func normalizeTV(item tmdb.Item) {
	item["media_type"] = "tv"
	if name, ok := item["name"].(string); ok && name != "" {
		item["title"] = name
	} else if title, ok := item["title"].(string); !ok || title == "" {
		item["title"] = fallbackTitle
	}
	if date, ok := item["first_air_date"].(string); ok && date != "" {
		item["release_date"] = date
	} else if _, ok := item["release_date"].(string); !ok {
		item["release_date"] = ""
	}
}

func hasPoster(item tmdb.Item) bool {
	poster, _ := item["poster_path"].(string)
	return poster != ""
}

func sortByField(items []tmdb.Item, field string) {
	sort.SliceStable(items, func(i, j int) bool {
		return numField(items[i], field) > numField(items[j], field)
	})
}

func numField(item tmdb.Item, field string) float64 {
	f, _ := item[field].(float64)
	return f
}

func capList(items []tmdb.Item, limit int) []tmdb.Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
