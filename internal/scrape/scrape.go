// Package scrape fetches a brand's homepage and reduces it to plain text for
// profile extraction. The pipeline consumes the Scraper interface only;
// failures surface as empty text so profiling degrades to user-supplied
// fields instead of failing the scan.
package scrape

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout is the HTTP request timeout for homepage fetches.
const DefaultTimeout = 20 * time.Second

// DefaultUserAgent identifies the scanner to sites being profiled.
const DefaultUserAgent = "Mozilla/5.0 (compatible; VisibilityScanner/1.0)"

// maxTextLength caps the text handed to the profile extractor so a huge
// homepage doesn't blow the LLM context.
const maxTextLength = 12000

// Scraper turns a URL into plain text. Implementations return an empty
// string (not an error) when the page cannot be fetched or parsed.
type Scraper interface {
	Fetch(ctx context.Context, rawURL string) string
}

// HTTPScraper fetches pages over plain HTTP with an optional headless
// browser fallback for JavaScript-rendered sites.
type HTTPScraper struct {
	client     *resty.Client
	useBrowser bool
}

// Option configures an HTTPScraper.
type Option func(*HTTPScraper)

// WithBrowserFallback enables headless-browser rendering when the HTTP
// fetch yields too little text. Requires Chrome on the host.
func WithBrowserFallback() Option {
	return func(s *HTTPScraper) { s.useBrowser = true }
}

// WithTimeout overrides the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPScraper) { s.client.SetTimeout(d) }
}

// NewHTTPScraper creates the default scraper implementation.
func NewHTTPScraper(opts ...Option) *HTTPScraper {
	client := resty.New().
		SetTimeout(DefaultTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("User-Agent", DefaultUserAgent)

	s := &HTTPScraper{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch retrieves the page and extracts its main text. Any failure logs and
// returns "".
func (s *HTTPScraper) Fetch(ctx context.Context, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		logrus.WithField("url", rawURL).Warn("scrape: invalid URL")
		return ""
	}

	resp, err := s.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		logrus.WithError(err).WithField("url", rawURL).Warn("scrape: fetch failed")
		return ""
	}
	if resp.StatusCode() != 200 {
		logrus.WithFields(logrus.Fields{"url": rawURL, "status": resp.StatusCode()}).Warn("scrape: non-200 response")
		return ""
	}

	text := ExtractMainText(string(resp.Body()))

	// Thin bodies usually mean a client-rendered SPA.
	if s.useBrowser && shouldUseBrowser(text) {
		if html, err := renderWithBrowser(ctx, rawURL); err == nil {
			if rendered := ExtractMainText(html); len(rendered) > len(text) {
				text = rendered
			}
		} else {
			logrus.WithError(err).WithField("url", rawURL).Debug("scrape: browser fallback failed")
		}
	}

	return truncate(text, maxTextLength)
}

// ExtractMainText parses HTML and returns the main body text with noise
// elements removed.
func ExtractMainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .cookie-banner, .popup, .sidebar").Remove()

	var mainContent *goquery.Selection
	for _, selector := range []string{"main", "article", ".content", "#content", ".hero"} {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text())
}

// cleanWhitespace collapses blank lines and trims each remaining one.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
