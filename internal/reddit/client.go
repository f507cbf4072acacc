package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	DefaultBaseURL   = "https://www.reddit.com"
	DefaultUserAgent = "reddit-cli/0.1"
	PageLimit        = 100

	sessionCookieName = "reddit_session"
)

// ListingRequest selects one page of a listing. Cursor is only sent when
// Paginate is set.
type ListingRequest struct {
	Query    string
	Sort     SortMode
	Paginate bool
	Cursor   string
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient builds a client for baseURL. A non-empty cookie is stored as the
// session cookie in a jar scoped to the base URL's host; an empty one gives
// anonymous requests.
func NewClient(baseURL, cookie, userAgent string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if cookie != "" {
		jar, err := sessionJar(baseURL, cookie)
		if err != nil {
			return nil, err
		}
		withJar := *httpClient
		withJar.Jar = jar
		httpClient = &withJar
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      httpClient,
	}, nil
}

func sessionJar(baseURL, cookie string) (http.CookieJar, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL has no host: %s", baseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	session := &http.Cookie{
		Name:  sessionCookieName,
		Value: cookie,
		Path:  "/",
	}
	// IP and single-label hosts stay host-only.
	if domain, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname()); err == nil {
		session.Domain = domain
	}
	jar.SetCookies(u, []*http.Cookie{session})
	return jar, nil
}

// ListingURL builds <base>/[<query>/]<sort>.json?limit=100[&after=<cursor>].
func (c *Client) ListingURL(req ListingRequest) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteByte('/')
	if query := NormalizeQuery(req.Query); query != "" {
		b.WriteString(query)
		b.WriteByte('/')
	}
	b.WriteString(req.Sort.String())
	b.WriteString(".json?limit=")
	b.WriteString(strconv.Itoa(PageLimit))
	if req.Paginate {
		b.WriteString("&after=")
		b.WriteString(url.QueryEscape(req.Cursor))
	}
	return b.String()
}

// CommentsURL builds <base>/comments/<id>/<sort>.json where id is the post
// fullname without its type prefix.
func (c *Client) CommentsURL(postID string, sort SortMode) string {
	return c.baseURL + "/comments/" + stripTypePrefix(postID) + "/" + sort.String() + ".json"
}

func NormalizeQuery(query string) string {
	return strings.Trim(strings.TrimSpace(query), "/")
}

func stripTypePrefix(fullname string) string {
	if i := strings.IndexByte(fullname, '_'); i >= 0 {
		return fullname[i+1:]
	}
	return fullname
}

func (c *Client) FetchListing(ctx context.Context, req ListingRequest) (ListingPage, error) {
	var page ListingPage
	if err := c.getJSON(ctx, c.ListingURL(req), "listing", &page); err != nil {
		return ListingPage{}, err
	}
	return page, nil
}

func (c *Client) FetchComments(ctx context.Context, postID string, sort SortMode) ([]Comment, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, fmt.Errorf("fetch comments: post has no id")
	}

	var raw []json.RawMessage
	if err := c.getJSON(ctx, c.CommentsURL(postID, sort), "comments", &raw); err != nil {
		return nil, err
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: comments response has %d listings, want 2", ErrMalformedResponse, len(raw))
	}

	var listing commentListing
	if err := json.Unmarshal(raw[1], &listing); err != nil {
		return nil, fmt.Errorf("%w: decode comment listing: %w", ErrMalformedResponse, err)
	}

	comments := make([]Comment, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Data.Body == nil {
			continue
		}
		comment := Comment{Body: *child.Data.Body}
		if child.Data.Author != nil {
			comment.Author = *child.Data.Author
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL, resource string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s failed with status %d: %s", resource, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrMalformedResponse, resource, err)
	}
	return nil
}
