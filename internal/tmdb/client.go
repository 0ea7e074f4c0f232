// Package tmdb is the upstream catalog client. Results are pass-through JSON
// objects so the proxy endpoints preserve whatever fields TMDB returns.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"filmrate/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// ErrNotFound is returned when the catalog has no entry for a detail lookup.
var ErrNotFound = errors.New("tmdb: not found")

// Item is one catalog result, kept as raw JSON key/values.
type Item map[string]any

// Client is the TMDB API client.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL, language string) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		language: language,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type listResponse struct {
	Results []Item `json:"results"`
}

// TrendingMovies fetches this week's trending movies.
func (c *Client) TrendingMovies(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/trending/movie/week", nil)
}

// TrendingTV fetches this week's trending TV shows.
func (c *Client) TrendingTV(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/trending/tv/week", nil)
}

// SearchMovies searches the movie catalog.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Item, error) {
	return c.list(ctx, "/search/movie", url.Values{"query": {query}})
}

// SearchTV searches the TV catalog.
func (c *Client) SearchTV(ctx context.Context, query string) ([]Item, error) {
	return c.list(ctx, "/search/tv", url.Values{"query": {query}})
}

// TopRatedMovies fetches the top-rated movie list.
func (c *Client) TopRatedMovies(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/movie/top_rated", nil)
}

// TopRatedTV fetches the top-rated TV list.
func (c *Client) TopRatedTV(ctx context.Context) ([]Item, error) {
	return c.list(ctx, "/tv/top_rated", nil)
}

// MovieDetail fetches full movie info. Returns ErrNotFound on a 404.
func (c *Client) MovieDetail(ctx context.Context, id int64) (Item, error) {
	return c.detail(ctx, "/movie/"+strconv.FormatInt(id, 10))
}

// TVDetail fetches full TV show info. Returns ErrNotFound on a 404.
func (c *Client) TVDetail(ctx context.Context, id int64) (Item, error) {
	return c.detail(ctx, "/tv/"+strconv.FormatInt(id, 10))
}

func (c *Client) list(ctx context.Context, endpoint string, extra url.Values) ([]Item, error) {
	var result listResponse
	if err := c.get(ctx, endpoint, extra, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *Client) detail(ctx context.Context, endpoint string) (Item, error) {
	var result Item
	if err := c.get(ctx, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, endpoint string, extra url.Values, dest any) error {
	params := url.Values{
		"api_key":  {c.apiKey},
		"language": {c.language},
	}
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	ctx, span := observability.StartClientSpan(ctx, "tmdb.get",
		attribute.String("tmdb.endpoint", endpoint),
	)
	err := c.doGet(ctx, endpoint, params, dest)
	observability.EndSpan(span, err)
	return err
}

func (c *Client) doGet(ctx context.Context, endpoint string, params url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observability.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()
	observability.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("tmdb: API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("tmdb: decode response: %w", err)
	}
	return nil
}
