package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moviegram/internal/cache"
	"moviegram/internal/config"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

// ErrUpstream signals that the metadata or AI provider failed; handlers map
// it to 502.
var ErrUpstream = errors.New("upstream provider error")

// TMDBClient proxies The Movie Database API, caching raw responses so the
// browse surfaces do not burn the upstream quota on every request.
type TMDBClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
	cache      cache.MetadataCache
}

// NewTMDBClient creates a TMDB proxy client. metaCache may be nil to disable
// caching.
func NewTMDBClient(cfg *config.Config, metaCache cache.MetadataCache) *TMDBClient {
	return &TMDBClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    tmdbBaseURL,
		apiKey:     cfg.TMDBAPIKey,
		language:   cfg.TMDBLanguage,
		cache:      metaCache,
	}
}

// Trending returns the raw daily trending payload.
func (c *TMDBClient) Trending(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/trending/movie/day", nil, "trending:day", cache.TrendingTTL)
}

// Search runs a multi search (movies, shows, people) for a free-text query.
func (c *TMDBClient) Search(ctx context.Context, query string, page int) ([]byte, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", fmt.Sprint(page))
	key := fmt.Sprintf("search:%s:%d", strings.ToLower(query), page)
	return c.get(ctx, "/search/multi", params, key, cache.DetailsTTL)
}

// Details returns the raw details payload for a movie or tv id.
func (c *TMDBClient) Details(ctx context.Context, mediaType, id string) ([]byte, error) {
	if mediaType != "movie" && mediaType != "tv" {
		mediaType = "movie"
	}
	path := fmt.Sprintf("/%s/%s", mediaType, id)
	key := fmt.Sprintf("details:%s:%s", mediaType, id)
	return c.get(ctx, path, nil, key, cache.DetailsTTL)
}

// PersonCredits returns the raw movie credits payload for a person id.
func (c *TMDBClient) PersonCredits(ctx context.Context, id string) ([]byte, error) {
	path := fmt.Sprintf("/person/%s/movie_credits", id)
	key := fmt.Sprintf("credits:%s", id)
	return c.get(ctx, path, nil, key, cache.DetailsTTL)
}

type tmdbPerson struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tmdbPersonSearch struct {
	Results []tmdbPerson `json:"results"`
}

// MovieCredit is one film from an actor's credits or the trending list.
type MovieCredit struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

// DisplayTitle returns the movie title, falling back to the tv name.
func (m MovieCredit) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

type tmdbCreditList struct {
	Cast    []MovieCredit `json:"cast"`
	Results []MovieCredit `json:"results"`
}

// FindActorMovies looks up a person by name and returns their canonical name
// with up to limit of their film credits.
func (c *TMDBClient) FindActorMovies(ctx context.Context, name string, limit int) (string, []MovieCredit, error) {
	params := url.Values{}
	params.Set("query", name)
	key := fmt.Sprintf("person:%s", strings.ToLower(name))

	payload, err := c.get(ctx, "/search/person", params, key, cache.DetailsTTL)
	if err != nil {
		return "", nil, err
	}

	var search tmdbPersonSearch
	if err := json.Unmarshal(payload, &search); err != nil {
		return "", nil, fmt.Errorf("decode person search: %w", err)
	}
	if len(search.Results) == 0 {
		return "", nil, nil
	}

	person := search.Results[0]
	creditsKey := fmt.Sprintf("credits:%d", person.ID)
	creditsPath := fmt.Sprintf("/person/%d/movie_credits", person.ID)

	payload, err = c.get(ctx, creditsPath, nil, creditsKey, cache.DetailsTTL)
	if err != nil {
		return "", nil, err
	}

	var credits tmdbCreditList
	if err := json.Unmarshal(payload, &credits); err != nil {
		return "", nil, fmt.Errorf("decode credits: %w", err)
	}

	cast := credits.Cast
	if limit > 0 && len(cast) > limit {
		cast = cast[:limit]
	}
	return person.Name, cast, nil
}

// TrendingTitles returns up to limit entries from today's trending list.
func (c *TMDBClient) TrendingTitles(ctx context.Context, limit int) ([]MovieCredit, error) {
	payload, err := c.Trending(ctx)
	if err != nil {
		return nil, err
	}

	var trending tmdbCreditList
	if err := json.Unmarshal(payload, &trending); err != nil {
		return nil, fmt.Errorf("decode trending: %w", err)
	}

	results := trending.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// get fetches a TMDB path, serving from and refilling the cache. Cache
// failures degrade to an upstream fetch.
func (c *TMDBClient) get(ctx context.Context, path string, params url.Values, cacheKey string, ttl time.Duration) ([]byte, error) {
	if c.cache != nil {
		if payload, found, err := c.cache.Get(ctx, cacheKey); err == nil && found {
			return payload, nil
		}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build tmdb request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tmdb response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[TMDB] %s returned status %d", path, resp.StatusCode)
		return nil, fmt.Errorf("%w: tmdb status %d", ErrUpstream, resp.StatusCode)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body, ttl); err != nil {
			log.Printf("[TMDB] Failed to cache %s: %v", cacheKey, err)
		}
	}

	return body, nil
}
