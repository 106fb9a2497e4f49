// Package fetch retrieves HTML pages from scraping sources while posing as
// a regular browser. Transport errors, bad statuses and anti-bot challenge
// pages are all folded into one retry loop; callers only ever see a parsed
// page or a terminal error.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/rafaeldmz/anistream/internal/util"
)

const (
	// UserAgent is sent with every request to look like a desktop browser.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// maxBodySize caps how much of a page we read; scraped pages are small.
	maxBodySize = 10 * 1024 * 1024
)

// challengeMarkers are substrings of known anti-bot interstitials. A body
// containing any of them is discarded and retried, never returned as content.
var challengeMarkers = []string{
	"Cloudflare",
	"Just a moment",
	"Checking your browser",
}

// Page is a successfully fetched document together with its raw HTML, which
// the regex-based stream extraction works on.
type Page struct {
	URL  string
	HTML string
	Doc  *goquery.Document
}

// Options configures a Fetcher. Zero values fall back to defaults.
type Options struct {
	Client        *http.Client
	MaxAttempts   int
	RetryDelay    time.Duration
	ChallengeWait time.Duration
}

// Fetcher fetches and parses pages with retry and backoff.
type Fetcher struct {
	client        *http.Client
	maxAttempts   int
	retryDelay    time.Duration
	challengeWait time.Duration
}

// New creates a Fetcher from opts.
func New(opts Options) *Fetcher {
	f := &Fetcher{
		client:        opts.Client,
		maxAttempts:   opts.MaxAttempts,
		retryDelay:    opts.RetryDelay,
		challengeWait: opts.ChallengeWait,
	}
	if f.client == nil {
		f.client = util.GetSharedClient()
	}
	if f.maxAttempts < 1 {
		f.maxAttempts = 3
	}
	if f.retryDelay == 0 {
		f.retryDelay = time.Second
	}
	if f.challengeWait == 0 {
		f.challengeWait = 2 * time.Second
	}
	return f
}

// IsChallenge reports whether body looks like an anti-bot interstitial
// rather than real content.
func IsChallenge(body string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

// Fetch GETs pageURL and returns the parsed page. Transport errors, non-2xx
// statuses and challenge pages consume one attempt each; backoff between
// attempts grows linearly. The error is terminal only after the whole
// attempt budget is spent.
func (f *Fetcher) Fetch(pageURL string) (*Page, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		req, err := http.NewRequest(http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, errors.Wrap(err, "create request")
		}
		f.decorateRequest(req)

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			util.Warn("fetch failed", "attempt", attempt, "url", pageURL, "err", err)
			f.backoff(attempt, f.retryDelay*time.Duration(attempt))
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			lastErr = fmt.Errorf("server returned: %s", resp.Status)
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			util.Warn("fetch failed", "attempt", attempt, "url", pageURL, "status", resp.Status)
			f.backoff(attempt, f.retryDelay*time.Duration(attempt))
			continue
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			util.Warn("fetch body read failed", "attempt", attempt, "url", pageURL, "err", err)
			f.backoff(attempt, f.retryDelay*time.Duration(attempt))
			continue
		}

		html := string(body)
		if IsChallenge(html) {
			lastErr = errors.New("challenge page detected")
			util.Warn("challenge page detected", "attempt", attempt, "url", pageURL)
			f.backoff(attempt, f.challengeWait)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			// Malformed documents are not a transient condition.
			return nil, errors.Wrap(err, "parse HTML")
		}

		return &Page{URL: pageURL, HTML: html, Doc: doc}, nil
	}

	return nil, errors.Wrapf(lastErr, "fetch %s: %d attempts exhausted", pageURL, f.maxAttempts)
}

func (f *Fetcher) decorateRequest(req *http.Request) {
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", "https://www.google.com/")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// backoff waits between attempts. Nothing waits after the last attempt;
// the terminal failure returns immediately.
func (f *Fetcher) backoff(attempt int, d time.Duration) {
	if attempt < f.maxAttempts && d > 0 {
		time.Sleep(d)
	}
}
