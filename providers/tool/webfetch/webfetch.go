package webfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/reago/internal/utils"
	"github.com/leofalp/reago/providers/observability"
	"github.com/leofalp/reago/providers/tool"
)

// Name is the registry key of the fetch tool.
const Name = "web_fetch"

const (
	DefaultUserAgent   = "reago-webfetch/1.0"
	DefaultMaxBodySize = 10 * 1024 * 1024
	DefaultMaxChars    = 8000
	maxRedirects       = 10
)

var (
	ErrEmptyURL     = errors.New("url cannot be empty")
	ErrBodyTooLarge = errors.New("response body too large")
)

// Input is what the agent passes to the tool.
type Input struct {
	URL         string `json:"url" jsonschema:"description=Page to fetch; a missing scheme defaults to https"`
	MaxChars    int    `json:"max_chars,omitempty" jsonschema:"description=Truncate the markdown to this many characters"`
	IncludeHTML bool   `json:"include_html,omitempty" jsonschema:"description=Also return the raw HTML"`
}

// Output is the fetched page.
type Output struct {
	URL      string `json:"url"`
	Status   int    `json:"status"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html,omitempty"`
}

// Fetcher downloads pages and converts them to Markdown.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithMaxBodySize caps how many bytes are read from a response.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) { f.maxBodySize = n }
}

// NewFetcher returns a Fetcher with a client that bounds dial, TLS and
// header waits. The overall deadline comes from the caller's context.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConnsPerHost:   10,
				ForceAttemptHTTP2:     true,
			},
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		}
	}
	return f
}

// New returns the fetch tool backed by a Fetcher built from opts.
func New(opts ...Option) *tool.Tool {
	f := NewFetcher(opts...)
	return tool.MustNewTool(Name, f.Fetch,
		tool.WithDescription("Fetch a web page and return its content as Markdown."))
}

// Fetch downloads in.URL and converts the HTML body to Markdown. Non-2xx
// responses are errors.
func (f *Fetcher) Fetch(ctx context.Context, in Input) (Output, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return Output{}, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	if obs := observability.ObserverFromContext(ctx); obs != nil {
		obs.Debug(ctx, "fetching page", observability.String(observability.AttrHTTPURL, url))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Output{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return Output{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Output{}, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return Output{}, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBodySize {
		return Output{}, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, f.maxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return Output{}, fmt.Errorf("convert to markdown: %w", err)
	}

	maxChars := in.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	out := Output{
		URL:      resp.Request.URL.String(),
		Status:   resp.StatusCode,
		Markdown: utils.TruncateString(strings.TrimSpace(markdown), maxChars),
	}
	if in.IncludeHTML {
		out.HTML = string(body)
	}
	return out, nil
}
