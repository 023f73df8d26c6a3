package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/leofalp/reago/internal/utils"
	"github.com/leofalp/reago/providers/tool"
)

// Name is the registry key of the search tool.
const Name = "search"

const (
	DefaultEndpoint  = "https://api.duckduckgo.com/"
	defaultUserAgent = "reago-duckduckgo/1.0"
	maxTopics        = 5
	noResults        = "No results found for this query."
)

type Input struct {
	Query string `json:"query" jsonschema:"description=Search terms"`
}

type Output struct {
	Query   string `json:"query"`
	Summary string `json:"summary"`
}

// response is the subset of the Instant Answer payload we read.
type response struct {
	AbstractText  string  `json:"AbstractText"`
	AbstractURL   string  `json:"AbstractURL"`
	Answer        string  `json:"Answer"`
	Definition    string  `json:"Definition"`
	RelatedTopics []topic `json:"RelatedTopics"`
}

type topic struct {
	Text   string  `json:"Text"`
	Topics []topic `json:"Topics"`
}

// Client queries the Instant Answer API.
type Client struct {
	endpoint string
	http     *http.Client
}

type Option func(*Client)

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(opts ...Option) *Client {
	c := &Client{endpoint: DefaultEndpoint, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New returns the search tool.
func New(opts ...Option) *tool.Tool {
	c := NewClient(opts...)
	return tool.MustNewTool(Name, c.Search,
		tool.WithDescription("Search the web with DuckDuckGo. Returns instant answers, abstracts and related topics."))
}

// Search runs the query and summarises the answer, abstract, definition and
// up to five related topics. An empty result set is not an error.
func (c *Client) Search(ctx context.Context, in Input) (Output, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return Output{}, fmt.Errorf("query cannot be empty")
	}

	resp, err := c.fetch(ctx, query)
	if err != nil {
		return Output{}, err
	}

	var parts []string
	if resp.Answer != "" {
		parts = append(parts, "Answer: "+resp.Answer)
	}
	if resp.AbstractText != "" {
		parts = append(parts, "Abstract: "+resp.AbstractText)
		if resp.AbstractURL != "" {
			parts = append(parts, "Source: "+resp.AbstractURL)
		}
	}
	if resp.Definition != "" {
		parts = append(parts, "Definition: "+resp.Definition)
	}
	if topics := flattenTopics(resp.RelatedTopics, maxTopics); len(topics) > 0 {
		parts = append(parts, "Related topics: "+strings.Join(topics, "; "))
	}

	summary := strings.Join(parts, "\n")
	if summary == "" {
		summary = noResults
	}
	return Output{Query: query, Summary: summary}, nil
}

func (c *Client) fetch(ctx context.Context, query string) (*response, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	return &out, nil
}

// flattenTopics walks grouped topics depth-first and returns up to limit
// topic texts.
func flattenTopics(topics []topic, limit int) []string {
	var out []string
	var walk func([]topic)
	walk = func(ts []topic) {
		for _, t := range ts {
			if len(out) >= limit {
				return
			}
			if t.Text != "" {
				out = append(out, t.Text)
			}
			walk(t.Topics)
		}
	}
	walk(topics)
	return out
}
