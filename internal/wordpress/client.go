// Package wordpress is a read-only client for the WordPress REST API.
//
// Every operation comes in two forms. The Result form (Posts, PostBySlug,
// Pages, Categories, Search) reports whether the source answered, matched
// nothing, or was unavailable. The fail-soft form (GetPosts, GetPostBySlug,
// GetPages, GetCategories, SearchPosts) never fails: problems are logged and
// an empty slice or nil is returned.
package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/recipe-archive/internal/httpcache"
)

const (
	DefaultBaseURL = "https://tiffycooks.com/wp-json/wp/v2"
	DefaultPerPage = 12

	DefaultRevalidate       = time.Hour
	DefaultSearchRevalidate = time.Minute
)

const (
	opGetPosts      = "getPosts"
	opGetPostBySlug = "getPostBySlug"
	opGetPages      = "getPages"
	opGetCategories = "getCategories"
	opSearchPosts   = "searchPosts"
)

// Client holds no mutable state and is safe for concurrent use.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	perPage       int
	userAgent     string
	contentPolicy httpcache.Policy
	searchPolicy  httpcache.Policy
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Response reuse happens in
// its Transport, see httpcache.Transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRevalidation sets how long list/detail and search responses may be reused.
func WithRevalidation(content, search time.Duration) Option {
	return func(c *Client) {
		c.contentPolicy = httpcache.Policy{MaxAge: content}
		c.searchPolicy = httpcache.Policy{MaxAge: search}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		perPage:       DefaultPerPage,
		contentPolicy: httpcache.Policy{MaxAge: DefaultRevalidate},
		searchPolicy:  httpcache.Policy{MaxAge: DefaultSearchRevalidate},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// fetch performs one GET against endpoint and decodes the JSON body into out.
// policy travels with the request context to the transport.
func (c *Client) fetch(ctx context.Context, op, endpoint string, q query, policy httpcache.Policy, out interface{}) error {
	u := c.baseURL + endpoint
	if len(q) > 0 {
		u += "?" + q.String()
	}

	req, err := http.NewRequestWithContext(httpcache.WithPolicy(ctx, policy), http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("wordpress %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		status := resp.Status
		if status == "" {
			status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Status: status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("wordpress %s: decode response: %w", op, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("op", op).
		Str("url", u).
		Str("cache", resp.Header.Get(httpcache.HeaderCache)).
		Msg("WordPress request completed")
	return nil
}

func logFailure(ctx context.Context, op string, err error) {
	zerolog.Ctx(ctx).Error().Err(err).Str("op", op).Msg("WordPress request failed")
}

func fetchList[T any](ctx context.Context, c *Client, op, endpoint string, q query, policy httpcache.Policy) Result[[]T] {
	var items []T
	if err := c.fetch(ctx, op, endpoint, q, policy, &items); err != nil {
		logFailure(ctx, op, err)
		return unavailable([]T{}, err)
	}
	if items == nil {
		items = []T{}
	}
	return ok(items)
}

// Posts returns the latest posts with embedded authors and featured media.
func (c *Client) Posts(ctx context.Context) Result[[]Post] {
	q := query{}.flag("_embed").raw("per_page", strconv.Itoa(c.perPage))
	return fetchList[Post](ctx, c, opGetPosts, "/posts", q, c.contentPolicy)
}

// PostBySlug returns the first post whose slug matches. The slug is sent as given.
func (c *Client) PostBySlug(ctx context.Context, slug string) Result[*Post] {
	q := query{}.raw("slug", slug).flag("_embed")
	res := fetchList[Post](ctx, c, opGetPostBySlug, "/posts", q, c.contentPolicy)
	if !res.OK() {
		return Result[*Post]{Status: res.Status, Err: res.Err}
	}
	if len(res.Value) == 0 {
		zerolog.Ctx(ctx).Debug().Str("op", opGetPostBySlug).Str("slug", slug).Msg("No post matches slug")
		return Result[*Post]{Status: StatusNotFound, Err: ErrNotFound}
	}
	return ok(&res.Value[0])
}

func (c *Client) Pages(ctx context.Context) Result[[]Page] {
	return fetchList[Page](ctx, c, opGetPages, "/pages", nil, c.contentPolicy)
}

func (c *Client) Categories(ctx context.Context) Result[[]Category] {
	return fetchList[Category](ctx, c, opGetCategories, "/categories", nil, c.contentPolicy)
}

// Search runs a full-text search. The term is query-escaped.
func (c *Client) Search(ctx context.Context, term string) Result[[]Post] {
	q := query{}.escaped("search", term).flag("_embed")
	return fetchList[Post](ctx, c, opSearchPosts, "/posts", q, c.searchPolicy)
}

func (c *Client) GetPosts(ctx context.Context) []Post {
	return c.Posts(ctx).Value
}

func (c *Client) GetPostBySlug(ctx context.Context, slug string) *Post {
	return c.PostBySlug(ctx, slug).Value
}

func (c *Client) GetPages(ctx context.Context) []Page {
	return c.Pages(ctx).Value
}

func (c *Client) GetCategories(ctx context.Context) []Category {
	return c.Categories(ctx).Value
}

func (c *Client) SearchPosts(ctx context.Context, term string) []Post {
	return c.Search(ctx, term).Value
}
