// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research gathers web sources for a topic through the Tavily
// search API and caches results per topic and depth.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/article-engine/internal/httputil"
	"github.com/pdiddy/article-engine/pkg/types"
)

// tavilyAPIBase is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIBase = "https://api.tavily.com/search"

const (
	deepMaxResults  = 15
	basicMaxResults = 5

	deepSearchDepth  = "advanced"
	basicSearchDepth = "basic"
)

// Client queries the Tavily search API. Deep research widens the result
// set, switches to advanced search depth, and requests raw page content.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	UserAgent  string
}

type tavilyRequest struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results"`
	SearchDepth       string `json:"search_depth"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Results []struct {
		Title      string `json:"title"`
		URL        string `json:"url"`
		Content    string `json:"content"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Search runs one Tavily query and returns normalized research data with
// derived insights and keywords. Transport and API failures surface as
// ErrServiceUnavailable so callers can degrade or retry.
func (c *Client) Search(ctx context.Context, topic string, deep bool) (*types.ResearchData, error) {
	if topic == "" {
		return nil, &types.MalformedInputError{Field: "topic", Reason: "must not be empty"}
	}

	maxResults := basicMaxResults
	depth := basicSearchDepth
	if deep {
		maxResults = deepMaxResults
		depth = deepSearchDepth
	}

	body, err := json.Marshal(tavilyRequest{
		Query:             topic,
		MaxResults:        maxResults,
		SearchDepth:       depth,
		IncludeRawContent: deep,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient(), req, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: search request: %v", types.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search API returned HTTP %d", types.ErrServiceUnavailable, resp.StatusCode)
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("%w: parsing search response: %v", types.ErrServiceUnavailable, err)
	}

	data := &types.ResearchData{}
	for _, r := range tr.Results {
		src := types.Source{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
		}
		if deep {
			src.RawContent = r.RawContent
		}
		data.Sources = append(data.Sources, src)
	}
	data.Insights, data.Keywords = deriveSignals(data.Sources)
	return data, nil
}
