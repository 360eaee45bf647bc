// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry queries the ClinicalTrials.gov v2 study search API.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/trial-monitor/pkg/types"
)

// searchBase is the registry's study search endpoint. Declared as a var
// so tests can substitute an httptest server.
var searchBase = "https://clinicaltrials.gov/api/v2/studies"

// defaultPageSize keeps most product searches to a single page.
const defaultPageSize = 1000

// Client pages through registry search results for one term at a time.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	PageSize   int
	UserAgent  string
}

// NewClient returns a Client configured from cfg. An empty BaseURL
// means the production endpoint.
func NewClient(httpClient *http.Client, cfg types.RegistryConfig) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = searchBase
	}
	return &Client{
		HTTPClient: httpClient,
		BaseURL:    baseURL,
		PageSize:   pageSize,
		UserAgent:  cfg.UserAgent,
	}
}

// searchPage is one page of the registry's paged response.
type searchPage struct {
	Studies       []Study `json:"studies"`
	NextPageToken string  `json:"nextPageToken"`
}

// EncodeTerm prepares a search term for the query.intr parameter. The
// term is trimmed and percent-encoded, then square brackets are rewritten
// as \[ and \] because the registry's search syntax treats brackets as
// operators; without this, product names with bracketed qualifiers
// ("Drug [XR]") never match.
func EncodeTerm(term string) string {
	escaped := url.QueryEscape(strings.TrimSpace(term))
	escaped = strings.ReplaceAll(escaped, "%5B", `\[`)
	escaped = strings.ReplaceAll(escaped, "%5b", `\[`)
	escaped = strings.ReplaceAll(escaped, "%5D", `\]`)
	escaped = strings.ReplaceAll(escaped, "%5d", `\]`)
	return escaped
}

// FetchStudies retrieves every study matching term by following the
// registry's page tokens until a page arrives without one. A non-200
// status, transport error, or malformed page ends pagination for this
// term: the studies collected so far are returned together with the
// error, and the caller decides whether to keep the partial batch. There
// is no retry; each page is requested exactly once.
func (c *Client) FetchStudies(ctx context.Context, term string) ([]Study, error) {
	var collected []Study
	pageToken := ""

	for {
		reqURL := fmt.Sprintf("%s?query.intr=%s&format=json&pageSize=%d",
			c.BaseURL, EncodeTerm(term), c.PageSize)
		if pageToken != "" {
			reqURL += "&pageToken=" + url.QueryEscape(pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return collected, fmt.Errorf("creating request for %q: %w", term, err)
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return collected, fmt.Errorf("registry request for %q: %w", term, err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return collected, fmt.Errorf("registry returned HTTP %d for %q", resp.StatusCode, term)
		}

		var page searchPage
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return collected, fmt.Errorf("parsing registry response for %q: %w", term, err)
		}

		collected = append(collected, page.Studies...)

		if page.NextPageToken == "" {
			return collected, nil
		}
		pageToken = page.NextPageToken
	}
}
