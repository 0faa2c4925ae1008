package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultEndpoint is the public Wikidata action API.
const DefaultEndpoint = "https://www.wikidata.org/w/api.php"

// SearchResult is a single wbsearchentities hit.
type SearchResult struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type searchResponse struct {
	Search []SearchResult `json:"search"`
	Error  *apiError      `json:"error"`
}

type entitiesResponse struct {
	Entities map[string]Entity `json:"entities"`
	Error    *apiError         `json:"error"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	Action     string
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wikidata %s returned %d (latency=%v)", e.Action, e.StatusCode, e.Latency)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client provides access to the Wikidata action API.
type Client struct {
	endpoint   string
	userAgent  string
	language   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the default HTTP client's timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a Wikidata client.
func New(endpoint, userAgent, language string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("wikidata user agent required")
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = "en"
	}
	client := &Client{
		endpoint:   endpoint,
		userAgent:  userAgent,
		language:   language,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchEntities runs wbsearchentities for query and returns up to limit items.
func (c *Client) SearchEntities(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", query)
	params.Set("language", c.language)
	params.Set("type", "item")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("format", "json")

	var payload searchResponse
	if err := c.get(ctx, "wbsearchentities", params, &payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("wikidata search failed: %s: %s", payload.Error.Code, payload.Error.Info)
	}
	return payload.Search, nil
}

// GetEntities fetches claims, labels, and descriptions for ids in one request.
// Entities Wikidata reports as missing are omitted from the result.
func (c *Client) GetEntities(ctx context.Context, ids []string) (map[string]Entity, error) {
	if len(ids) == 0 {
		return map[string]Entity{}, nil
	}
	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("ids", strings.Join(ids, "|"))
	params.Set("props", "claims|labels|descriptions")
	params.Set("languages", c.language)
	params.Set("format", "json")

	var payload entitiesResponse
	if err := c.get(ctx, "wbgetentities", params, &payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("wikidata entity lookup failed: %s: %s", payload.Error.Code, payload.Error.Info)
	}
	out := make(map[string]Entity, len(payload.Entities))
	for id, entity := range payload.Entities {
		if entity.Missing != nil {
			continue
		}
		if entity.ID == "" {
			entity.ID = id
		}
		out[id] = entity
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, action string, params url.Values, dst any) error {
	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("parse wikidata url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute %s request (latency=%v): %w", action, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Action: action, StatusCode: resp.StatusCode, Latency: latency}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	return nil
}
