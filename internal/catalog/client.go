package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrKriegler/go-storefront/internal/core"
)

const (
	listPath   = "/products"
	searchPath = "/products/search"
)

// Client reads pages from a dummyjson-shaped product API.
type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog base url %q: scheme and host required", baseURL)
	}
	return &Client{BaseURL: u, HTTP: &http.Client{Timeout: timeout}}, nil
}

type pageResponse struct {
	Products []core.Product `json:"products"`
	Total    int            `json:"total"`
	Skip     int            `json:"skip"`
	Limit    int            `json:"limit"`
}

// Search lists the catalog for a blank query and searches it otherwise.
func (c *Client) Search(ctx context.Context, q core.PageQuery) (core.Page, error) {
	path := listPath
	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("skip", strconv.Itoa(q.Offset))
	if term := strings.TrimSpace(q.Query); term != "" {
		path = searchPath
		params.Set("q", term)
	}

	u := c.BaseURL.ResolveReference(&url.URL{Path: path, RawQuery: params.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return core.Page{}, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if rid := middleware.GetReqID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return core.Page{}, fmt.Errorf("%w: %w", core.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return core.Page{}, fmt.Errorf("%w: %s returned %d", core.ErrUpstream, path, resp.StatusCode)
	}

	var body pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return core.Page{}, fmt.Errorf("decode catalog page: %w", err)
	}
	if body.Products == nil {
		body.Products = []core.Product{}
	}
	return core.Page{Items: body.Products, Total: body.Total}, nil
}
