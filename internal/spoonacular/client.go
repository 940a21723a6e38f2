// Package spoonacular is a client for the Spoonacular recipe API. Only the
// two endpoints the browser needs are covered: complex search and recipe
// information.
package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/logger"
)

// DefaultBaseURL is the public Spoonacular endpoint.
const DefaultBaseURL = "https://api.spoonacular.com"

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

// ── Wire types ───────────────────────────────────────────────────

type searchResponse struct {
	Results []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Image string `json:"image"`
	} `json:"results"`
}

type informationResponse struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	Image               string `json:"image"`
	Servings            int    `json:"servings"`
	ReadyInMinutes      int    `json:"readyInMinutes"`
	SourceURL           string `json:"sourceUrl"`
	Instructions        string `json:"instructions"`
	ExtendedIngredients []struct {
		ID       int64  `json:"id"`
		Original string `json:"original"`
	} `json:"extendedIngredients"`
}

// ── Client ───────────────────────────────────────────────────────

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at another host (tests, proxies).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = strings.TrimRight(base, "/") }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables
// the limiter.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// Client talks to the Spoonacular REST API.
type Client struct {
	base    string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

var _ domain.RecipeAPI = (*Client)(nil)

// NewClient creates a Spoonacular client authenticated with apiKey.
func NewClient(apiKey string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		base:    DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search returns up to limit recipes whose name matches query, in the
// order the service ranks them.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.get(ctx, "/recipes/complexSearch", params, &resp); err != nil {
		return nil, fmt.Errorf("spoonacular: search %q: %w", query, err)
	}

	results := make([]domain.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, domain.SearchResult{
			ID:       domain.RecipeID(r.ID),
			Title:    r.Title,
			ImageURL: r.Image,
		})
	}
	return results, nil
}

// Detail returns the full information of one recipe.
func (c *Client) Detail(ctx context.Context, id domain.RecipeID) (*domain.RecipeDetail, error) {
	var resp informationResponse
	path := "/recipes/" + id.String() + "/information"
	if err := c.get(ctx, path, url.Values{}, &resp); err != nil {
		return nil, fmt.Errorf("spoonacular: recipe %s: %w", id, err)
	}

	d := &domain.RecipeDetail{
		ID:               id,
		Title:            resp.Title,
		InstructionsHTML: resp.Instructions,
		Servings:         resp.Servings,
		ReadyInMinutes:   resp.ReadyInMinutes,
		SourceURL:        resp.SourceURL,
		ImageURL:         resp.Image,
	}
	for _, ing := range resp.ExtendedIngredients {
		d.Ingredients = append(d.Ingredients, domain.Ingredient{ID: ing.ID, Original: ing.Original})
	}
	return d, nil
}

// get performs one GET and decodes the JSON body into out. Errors never
// include the request URL since it carries the API key.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	params.Set("apiKey", c.apiKey)
	endpoint := c.base + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	log := c.log.With("request_id", reqID)
	log.Debug("spoonacular: GET %s", path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s", domain.ErrNetwork, describe(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%w: read body: %s", domain.ErrNetwork, describe(err))
	}
	log.Debug("spoonacular: %s -> %d (%d bytes, %s)", path, resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.HTTPError{StatusCode: resp.StatusCode, Reason: reasonPhrase(resp)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return nil
}

// reasonPhrase is the server's reason phrase, falling back to the standard
// text for the code when the status line carries none.
func reasonPhrase(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, code))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

// describe strips the URL from a transport error.
func describe(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err.Error()
	}
	return err.Error()
}
