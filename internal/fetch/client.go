package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// Registry endpoints.
const (
	// DefaultDetailBaseURL is the prefix of every partner detail page.
	DefaultDetailBaseURL = "https://rpvs.gov.sk/rpvs/Partner/Partner/Detail"

	// DefaultCountURL is the search endpoint that reports the record total.
	DefaultCountURL = "https://rpvs.gov.sk/rpvs/Partner/Partner/VyhladavaniePartneraData"
)

// Request defaults.
const (
	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultTimeout bounds a detail page request.
	DefaultTimeout = 10 * time.Second

	// DefaultCountTimeout bounds the record count request.
	DefaultCountTimeout = 15 * time.Second
)

// Client fetches registry pages over HTTP.
//
// Design decision: the Client builds URLs itself instead of relying on a
// resty base URL. The detail URL is also the cache key, so it must be
// produced by exactly one function (DetailURL) and stay stable across runs.
type Client struct {
	// http is the underlying resty client.
	http *resty.Client

	// detailBaseURL is the detail page prefix without a trailing slash.
	detailBaseURL string

	// countURL is the record count endpoint.
	countURL string

	// countTimeout bounds TotalRecords.
	countTimeout time.Duration

	// Settings collected by options and applied in NewClient.
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	headers    map[string]string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithDetailBaseURL sets the detail page prefix.
func WithDetailBaseURL(base string) Option {
	return func(c *Client) {
		c.detailBaseURL = strings.TrimRight(base, "/")
	}
}

// WithCountURL sets the record count endpoint.
// An empty URL disables TotalRecords.
func WithCountURL(url string) Option {
	return func(c *Client) {
		c.countURL = url
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the detail page request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCountTimeout sets the record count request timeout.
func WithCountTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.countTimeout = d
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithHTTPClient sets the transport client. Tests use it to point the
// Client at an httptest server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger routes resty's internal warnings to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client with registry defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		detailBaseURL: DefaultDetailBaseURL,
		countURL:      DefaultCountURL,
		countTimeout:  DefaultCountTimeout,
		userAgent:     DefaultUserAgent,
		timeout:       DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.http = resty.NewWithClient(c.httpClient)
	} else {
		c.http = resty.New()
	}
	c.http.SetTimeout(c.timeout)
	c.http.SetHeader("User-Agent", c.userAgent)
	c.http.SetHeaders(c.headers)
	if c.logger != nil {
		c.http.SetLogger(restyLogger{logger: c.logger})
	}

	return c
}

// DetailURL returns the detail page URL for id.
func (c *Client) DetailURL(id int) string {
	return c.detailBaseURL + "/" + strconv.Itoa(id)
}

// Fetch downloads the detail page for id.
// A non-2xx response yields a *StatusError.
func (c *Client) Fetch(ctx context.Context, id int) (*Page, error) {
	url := c.DetailURL(id)

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if !res.IsSuccess() {
		return nil, &StatusError{URL: url, StatusCode: res.StatusCode()}
	}

	contentType := res.Header().Get("Content-Type")
	body, err := decodeBody(res.Body(), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	return &Page{
		ID:          id,
		URL:         url,
		StatusCode:  res.StatusCode(),
		ContentType: contentType,
		Body:        body,
	}, nil
}

// countResponse is the subset of the search endpoint reply we read.
type countResponse struct {
	RecordsTotal *int `json:"recordsTotal"`
}

// TotalRecords asks the search endpoint how many partners are registered.
func (c *Client) TotalRecords(ctx context.Context) (int, error) {
	if c.countURL == "" {
		return 0, ErrNoCountURL
	}

	if c.countTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.countTimeout)
		defer cancel()
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Post(c.countURL)
	if err != nil {
		return 0, fmt.Errorf("failed to query record count: %w", err)
	}
	if !res.IsSuccess() {
		return 0, &StatusError{URL: c.countURL, StatusCode: res.StatusCode()}
	}

	var data countResponse
	if err := json.Unmarshal(res.Body(), &data); err != nil {
		return 0, fmt.Errorf("failed to decode record count: %w", err)
	}
	if data.RecordsTotal == nil {
		return 0, ErrMissingTotal
	}
	return *data.RecordsTotal, nil
}

// decodeBody converts body to UTF-8 using the charset in contentType or,
// failing that, the one declared in the document itself.
func decodeBody(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// restyLogger adapts slog to resty.Logger.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "http")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "http")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "http")
}
