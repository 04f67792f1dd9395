package unsplash

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
)

var ErrUnauthorized = errors.New("invalid access key")

// APIError is returned for any non-2xx response.
type APIError struct {
	Resource   string
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Resource, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

type Client struct {
	baseURL   string
	accessKey string
	perPage   int
	http      *http.Client
}

// NewClient builds a client for the Unsplash API. perPage of 0 leaves the
// page size to the API.
func NewClient(baseURL, accessKey string, perPage int, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		perPage:   perPage,
		http:      httpClient,
	}
}

// ListPhotos fetches one page of the editorial listing.
func (c *Client) ListPhotos(ctx context.Context, page int) ([]Photo, error) {
	var photos []Photo
	if err := c.getJSON(ctx, "/photos", c.pageQuery(page), "list photos", &photos); err != nil {
		return nil, err
	}
	return withIDs(photos), nil
}

// SearchPhotos fetches one page of search results for query.
func (c *Client) SearchPhotos(ctx context.Context, query string, page int) ([]Photo, error) {
	q := c.pageQuery(page)
	q.Set("query", query)

	var resp struct {
		Total      int     `json:"total"`
		TotalPages int     `json:"total_pages"`
		Results    []Photo `json:"results"`
	}
	if err := c.getJSON(ctx, "/search/photos", q, "search photos", &resp); err != nil {
		return nil, err
	}
	return withIDs(resp.Results), nil
}

func (c *Client) pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	q := make(url.Values)
	q.Set("client_id", c.accessKey)
	q.Set("page", strconv.Itoa(page))
	if c.perPage > 0 {
		q.Set("per_page", strconv.Itoa(c.perPage))
	}
	return q
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, resource string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path+"?"+q.Encode())
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Resource: resource, StatusCode: resp.StatusCode, Messages: errorMessages(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", resource, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, pathAndQuery string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")
	return req, nil
}

// errorMessages extracts {"errors": [...]} bodies, falling back to the raw
// text.
func errorMessages(body []byte) []string {
	var payload struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		return payload.Errors
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return []string{text}
	}
	return nil
}

func withIDs(photos []Photo) []Photo {
	out := photos[:0]
	for _, p := range photos {
		if strings.TrimSpace(p.ID) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
