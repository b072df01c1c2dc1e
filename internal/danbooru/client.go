package danbooru

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/net/proxy"

	"github.com/nao1215/tagcrawl/internal/model"
)

// DefaultEndpoint is the Danbooru tag listing endpoint.
const DefaultEndpoint = "https://danbooru.donmai.us/tags.json"

// DefaultPageSize is the largest page size Danbooru serves.
const DefaultPageSize = 1000

// maxBodySize caps the bytes read from one page. A full page of 1000 tags
// is well under 1MB.
const maxBodySize = 32 * 1024 * 1024

// Client fetches tag pages from the API.
type Client struct {
	// endpoint is the listing URL without query parameters.
	endpoint string

	// pageSize is sent as the "limit" parameter.
	pageSize int

	// userAgent is sent with every request.
	userAgent string

	// timeout bounds each request. Zero means none.
	timeout time.Duration

	// proxyAddress is an optional SOCKS5 proxy in "[user:password@]host:port" form.
	proxyAddress string

	// httpClient is built by NewClient unless supplied with WithHTTPClient.
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the listing URL (for tests or mirrors).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithPageSize sets the number of tags requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets a per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithProxy routes requests through a SOCKS5 proxy at "host:port".
// "user:password@host:port" authenticates with the proxy.
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithHTTPClient replaces the HTTP client. Timeout and proxy options are
// then ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client. It validates the proxy address but does not
// connect to anything.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		endpoint: DefaultEndpoint,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		return c, nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	if c.proxyAddress != "" {
		address, auth, ok := parseProxy(c.proxyAddress)
		if !ok {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", address, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}
	return c, nil
}

// dialContext adapts a proxy.Dialer to http.Transport.DialContext,
// using the context-aware path when the dialer provides one.
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

// parseProxy splits "[user[:password]@]host:port" into the address and
// the SOCKS5 credentials.
func parseProxy(raw string) (string, *proxy.Auth, bool) {
	var auth *proxy.Auth
	address := raw
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		user, password, _ := strings.Cut(raw[:i], ":")
		if user == "" {
			return "", nil, false
		}
		auth = &proxy.Auth{User: user, Password: password}
		address = raw[i+1:]
	}
	if !isValidProxyAddress(address) {
		return "", nil, false
	}
	return address, auth, true
}

// isValidProxyAddress checks for "host:port" with a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// Endpoint returns the configured listing URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// PageURL returns the request URL for page n. The query keys are the ones
// Danbooru's tag search understands: the listing is ordered by post count,
// descending, without empty or deprecated tags.
func (c *Client) PageURL(page int) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}

	q := u.Query()
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("search[hide_empty]", "yes")
	q.Set("search[is_deprecated]", "no")
	q.Set("search[order]", "count")
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// FetchPage performs one GET for page n and decodes its items in order.
// An empty slice means the collection is exhausted.
func (c *Client) FetchPage(ctx context.Context, page int) ([]model.Tag, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	pageURL, err := c.PageURL(page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096) //nolint:errcheck // best effort
		return nil, &StatusError{Page: page, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read page %d: %w", page, err)
	}

	tags, err := DecodePage(body)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	return tags, nil
}

// DecodePage decodes a page body. The body must be a JSON array; the
// fields of each element are read leniently (see DecodeTag).
func DecodePage(body []byte) ([]model.Tag, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedPage
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, ErrMalformedPage
	}

	items := root.Array()
	tags := make([]model.Tag, 0, len(items))
	for _, item := range items {
		tags = append(tags, DecodeTag(item))
	}
	return tags, nil
}

// DecodeTag reads one tag object. The name is kept exactly as received. A
// post_count that is missing, negative or
// not an integer decodes to model.MissingPostCount; a category that is
// missing or not one of the known codes decodes to model.CategoryUnknown.
func DecodeTag(item gjson.Result) model.Tag {
	tag := model.Tag{
		Name:      item.Get("name").String(),
		Category:  model.CategoryUnknown,
		PostCount: model.MissingPostCount,
	}

	if n, ok := integer(item.Get("post_count")); ok && n >= 0 {
		tag.PostCount = n
	}
	if n, ok := integer(item.Get("category")); ok && model.Category(n).Known() {
		tag.Category = model.Category(n)
	}
	return tag
}

// integer returns r as an int64 when r is a JSON number with no fraction.
func integer(r gjson.Result) (int64, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	n := r.Int()
	if float64(n) != r.Float() {
		return 0, false
	}
	return n, true
}
