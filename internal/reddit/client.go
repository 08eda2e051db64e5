package reddit

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
)

const (
	webBase = "https://www.reddit.com"

	// DefaultUserAgent identifies the client to Reddit, which throttles generic agents.
	DefaultUserAgent = "subnews/1.0 (terminal subreddit reader)"

	defaultTimeout = 15 * time.Second
)

// Fetcher loads the newest posts of a subreddit.
type Fetcher interface {
	Fetch(ctx context.Context, subreddit string) ([]Post, error)
}

// Options configures a Client or RSSFetcher. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	Limit      int
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = webBase
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	return o
}

// Client reads the JSON listing endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limit      int
}

func NewClient(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		httpClient: opts.HTTPClient,
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		limit:      opts.Limit,
	}
}

// NewFetcher builds the fetcher for the given source ("json" or "rss"),
// wrapped in a response cache when opts.CacheTTL is positive.
func NewFetcher(source string, opts Options) (Fetcher, error) {
	var f Fetcher
	switch source {
	case "", "json":
		f = NewClient(opts)
	case "rss":
		f = NewRSSFetcher(opts)
	default:
		return nil, fmt.Errorf("unknown source %q (valid: json, rss)", source)
	}
	if opts.CacheTTL > 0 {
		return WithCache(f, opts.CacheTTL), nil
	}
	return f, nil
}

// NormalizeSubreddit trims the query and strips an optional "r/" prefix.
func NormalizeSubreddit(q string) (string, error) {
	name := strings.TrimSpace(q)
	name = strings.TrimPrefix(name, "/")
	if len(name) >= 2 && strings.EqualFold(name[:2], "r/") {
		name = name[2:]
	}
	name = strings.TrimSpace(strings.Trim(name, "/"))
	if name == "" {
		return "", ErrEmptyQuery
	}
	return name, nil
}

func (c *Client) listingURL(name string) string {
	u := c.baseURL + "/r/" + url.PathEscape(name) + "/new.json"
	if c.limit > 0 {
		u += "?limit=" + strconv.Itoa(c.limit)
	}
	return u
}

func (c *Client) Fetch(ctx context.Context, subreddit string) ([]Post, error) {
	name, err := NormalizeSubreddit(subreddit)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listingURL(name), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching r/%s: %w", name, err)
	}
	defer resp.Body.Close()

	if err := statusErr(resp.StatusCode); err != nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetching r/%s: %w", name, err)
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("decoding r/%s: %w", name, err)
	}
	if len(l.Data.Children) == 0 {
		return nil, ErrNoPosts
	}

	posts := make([]Post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		posts = append(posts, child.Data.post())
	}
	return posts, nil
}
