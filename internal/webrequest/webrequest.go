// Package webrequest implements the external HTTP collaborators the
// Paste Dispatcher invokes for web-request and web-scraping clips: a
// net/http client bounded by a fixed 12-second total timeout and a
// 6-redirect budget. The scraping side stays at "fetch body, strip
// markup"; structured selector-based extraction is deliberately not
// supported.
package webrequest

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/model"
)

// requestTimeout and maxRedirects bound every request and scrape.
const (
	requestTimeout = 12 * time.Second
	maxRedirects   = 6
)

// Client performs web-request and web-scraping clip actions, implementing
// both paste.WebRequestService and paste.WebScrapingService.
type Client struct {
	http *http.Client
	log  *zap.SugaredLogger
}

// New builds a Client with the fixed timeout/redirect budget.
func New(log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		http: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("webrequest: stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		log: log,
	}
}

// Do issues opts' HTTP request and returns the response body as a
// string, implementing paste.WebRequestService.
func (c *Client) Do(opts model.RequestOptions) (string, error) {
	body, err := c.fetch(opts)
	if err != nil {
		return "", err
	}
	return body, nil
}

// Scrape issues opts' HTTP request and returns the response body with
// HTML tags stripped, implementing paste.WebScrapingService. Structured
// selector-based extraction is deliberately not supported.
func (c *Client) Scrape(opts model.RequestOptions) (string, error) {
	body, err := c.fetch(opts)
	if err != nil {
		return "", err
	}
	return stripTags(body), nil
}

func (c *Client) fetch(opts model.RequestOptions) (string, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	var bodyReader io.Reader
	if opts.Body != "" {
		bodyReader = strings.NewReader(opts.Body)
	}

	req, err := http.NewRequest(method, opts.URL, bodyReader)
	if err != nil {
		return "", fmt.Errorf("webrequest: building request: %w", err)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnw("webrequest: request failed", "url", opts.URL, "error", err)
		return "", fmt.Errorf("webrequest: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("webrequest: reading body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("webrequest: %s returned %d", opts.URL, resp.StatusCode)
	}
	return string(data), nil
}

var (
	scriptOrStyle = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	htmlTag       = regexp.MustCompile(`(?s)<[^>]+>`)
	blankRun      = regexp.MustCompile(`\n{3,}`)
)

// stripTags removes script/style blocks and all remaining tags, leaving
// plain text.
func stripTags(html string) string {
	html = scriptOrStyle.ReplaceAllString(html, "")
	html = htmlTag.ReplaceAllString(html, "\n")
	html = blankRun.ReplaceAllString(html, "\n\n")
	return strings.TrimSpace(html)
}
