package srcom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/speedscan/speedscan/internal/model"
	"golang.org/x/time/rate"
)

// statusRateLimited is the non-standard status speedrun.com answers when
// the per-minute request budget is exhausted.
const statusRateLimited = 420

// Client is a speedrun.com API client.
//
// Design decision: We use a struct with the http.Client rather than
// passing the client on each call because:
//  1. Client configuration (timeout, pacing) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with an httptest server as the base URL
type Client struct {
	// baseURL is the API root, without a trailing slash.
	baseURL string

	// httpClient performs the actual requests.
	httpClient *http.Client

	// userAgent is the User-Agent header sent with every request.
	// The API guidelines ask for a descriptive one.
	userAgent string

	// maxBodySize limits the response body size to prevent memory
	// exhaustion from unexpected responses.
	maxBodySize int64

	// pageSize is the max= parameter for collection endpoints.
	pageSize int

	// limiter paces requests below the API's per-minute budget.
	// Nil disables pacing (tests against a local server).
	limiter *rate.Limiter

	// retry is the bounded retry policy applied to every request.
	retry RetryPolicy

	// logger receives retry and pacing diagnostics.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithPageSize sets the number of entries requested per listing page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithRequestsPerMinute paces requests client-side. Zero disables
// pacing.
//
// Design decision: We pace proactively rather than only reacting to 420
// responses because the penalty window is a full minute; for a platform
// with thousands of games, tripping the limiter repeatedly dominates the
// total scan time.
func WithRequestsPerMinute(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

// WithRetryPolicy sets the retry policy applied to every request.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithLogger sets the logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a speedrun.com API client for the given base URL
// (normally config.DefaultAPIBaseURL).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		userAgent:   "speedscan/1.0 (+https://github.com/speedscan/speedscan)",
		maxBodySize: 2 * 1024 * 1024, // 2MB
		pageSize:    200,
		retry:       DefaultRetryPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// listURL builds a collection URL with the configured page size.
func (c *Client) listURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("max", strconv.Itoa(c.pageSize))
	return c.baseURL + path + "?" + params.Encode()
}

// fetch performs a single GET and returns the raw body.
// Rate-limit and not-found statuses map to their sentinel errors so the
// retry policy and callers can branch on them with errors.Is.
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to body read
	case resp.StatusCode == statusRateLimited || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: %w", rawURL, ErrRateLimited)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", rawURL, ErrNotFound)
	default:
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// getJSON fetches rawURL and decodes the response, all under the retry
// policy. Decoding happens inside the retried operation because a
// truncated or malformed body is a transient failure per the error
// taxonomy: the next attempt gets a fresh response.
func getJSON[T any](ctx context.Context, c *Client, what, rawURL string) (T, error) {
	return Do(ctx, c.retry, c.logger, what, func(ctx context.Context) (T, error) {
		var out T
		body, err := c.fetch(ctx, rawURL)
		if err != nil {
			return out, err
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return out, fmt.Errorf("malformed response from %s: %w", rawURL, err)
		}
		return out, nil
	})
}

// collectPages walks a paginated collection to exhaustion and returns
// every item. Used for the small collections (platforms, genres) that
// are cheap to hold in memory.
func collectPages[T any](ctx context.Context, c *Client, what, firstURL string) ([]T, error) {
	var all []T
	next := firstURL
	for next != "" {
		page, err := getJSON[collectionPage[T]](ctx, c, what, next)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		next = page.Pagination.next()
	}
	return all, nil
}

// Platforms lists every platform known to speedrun.com.
func (c *Client) Platforms(ctx context.Context) ([]model.Platform, error) {
	raw, err := collectPages[platformData](ctx, c, "list platforms", c.listURL("/platforms", nil))
	if err != nil {
		return nil, err
	}
	platforms := make([]model.Platform, 0, len(raw))
	for _, p := range raw {
		platforms = append(platforms, p.toModel())
	}
	return platforms, nil
}

// ResolvePlatform finds the platform matching a user query (display
// name, abbreviation, or raw ID). Returns ErrPlatformNotFound when
// nothing in the listing matches.
func (c *Client) ResolvePlatform(ctx context.Context, query string) (model.Platform, error) {
	platforms, err := c.Platforms(ctx)
	if err != nil {
		return model.Platform{}, err
	}
	for _, p := range platforms {
		if p.Matches(query) {
			return p, nil
		}
	}
	return model.Platform{}, fmt.Errorf("%q: %w", query, ErrPlatformNotFound)
}

// Genres lists every genre known to speedrun.com.
func (c *Client) Genres(ctx context.Context) ([]model.Genre, error) {
	raw, err := collectPages[genreData](ctx, c, "list genres", c.listURL("/genres", nil))
	if err != nil {
		return nil, err
	}
	genres := make([]model.Genre, 0, len(raw))
	for _, g := range raw {
		genres = append(genres, g.toModel())
	}
	return genres, nil
}

// Games enumerates the games published on a platform.
//
// The sequence is lazy and finite: pages are fetched as the consumer
// advances, and ranging again re-queries from page one (no resumption
// state is kept). A page fetch that fails after retries yields a single
// non-nil error and ends the sequence; callers must treat that as fatal
// because a partial platform listing is not a complete scan.
func (c *Client) Games(ctx context.Context, platformID string) iter.Seq2[model.Game, error] {
	firstURL := c.listURL("/games", url.Values{"platform": {platformID}})
	return func(yield func(model.Game, error) bool) {
		next := firstURL
		for next != "" {
			page, err := getJSON[collectionPage[gameData]](ctx, c, "list games", next)
			if err != nil {
				yield(model.Game{}, fmt.Errorf("game listing failed: %w", err))
				return
			}
			for _, g := range page.Data {
				if !yield(g.toModel(), nil) {
					return
				}
			}
			next = page.Pagination.next()
		}
	}
}

// Game fetches the detail record for a single game. Needed only by the
// platform-exclusive filter, which requires the full platform list.
func (c *Client) Game(ctx context.Context, gameID string) (model.Game, error) {
	item, err := getJSON[singleItem[gameData]](ctx, c, "get game", c.baseURL+"/games/"+url.PathEscape(gameID))
	if err != nil {
		return model.Game{}, err
	}
	return item.Data.toModel(), nil
}

// Categories lists the run categories of a game.
func (c *Client) Categories(ctx context.Context, gameID string) ([]model.Category, error) {
	item, err := getJSON[singleItem[[]categoryData]](ctx, c, "list categories",
		c.baseURL+"/games/"+url.PathEscape(gameID)+"/categories")
	if err != nil {
		return nil, err
	}
	categories := make([]model.Category, 0, len(item.Data))
	for _, cat := range item.Data {
		categories = append(categories, cat.toModel())
	}
	return categories, nil
}

// WorldRecord fetches the first-place run for a (game, category) pair.
// Only the top entry is requested. Returns nil with no error when the
// leaderboard is empty (no runs submitted).
func (c *Client) WorldRecord(ctx context.Context, gameID, categoryID string) (*model.WorldRecord, error) {
	u := c.baseURL + "/leaderboards/" + url.PathEscape(gameID) +
		"/category/" + url.PathEscape(categoryID) + "?top=1"
	item, err := getJSON[singleItem[leaderboardData]](ctx, c, "get leaderboard", u)
	if err != nil {
		return nil, err
	}
	return item.Data.record(), nil
}
