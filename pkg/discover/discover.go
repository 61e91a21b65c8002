// Package discover finds candidate publication URLs on Substack listing pages.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/codeGROOVE-dev/substackfinder/pkg/httpclient"
	"github.com/codeGROOVE-dev/substackfinder/pkg/substack"
)

// DefaultBaseURL hosts the category and leaderboard listings.
const DefaultBaseURL = "https://substack.com"

// DefaultLimit caps how many URLs category discovery returns.
const DefaultLimit = 50

// DefaultCategories are the category listing pages scanned in order.
var DefaultCategories = []string{"technology", "business", "design", "startup", "culture", "top"}

// Discoverer produces candidate URLs. A URL may appear in more than one mode;
// callers deduplicate across modes.
type Discoverer struct {
	client     *http.Client
	pacer      *httpclient.Pacer
	logger     *slog.Logger
	baseURL    string
	categories []string
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithBaseURL overrides the listing host.
func WithBaseURL(u string) Option {
	return func(d *Discoverer) { d.baseURL = strings.TrimRight(u, "/") }
}

// WithCategories overrides the scanned categories.
func WithCategories(categories ...string) Option {
	return func(d *Discoverer) { d.categories = categories }
}

// WithPacer sets the pause taken before each listing fetch.
func WithPacer(p *httpclient.Pacer) Option {
	return func(d *Discoverer) { d.pacer = p }
}

// New creates a Discoverer that fetches listing pages with client.
func New(client *http.Client, opts ...Option) *Discoverer {
	d := &Discoverer{
		client:     client,
		logger:     slog.Default(),
		baseURL:    DefaultBaseURL,
		categories: DefaultCategories,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.client == nil {
		d.client = httpclient.New(httpclient.DefaultTimeout)
	}
	return d
}

// FromCategories scans category pages in order until limit URLs are collected.
// A category that cannot be fetched is logged and skipped.
func (d *Discoverer) FromCategories(ctx context.Context, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	d.logger.InfoContext(ctx, "discovering from category pages", "categories", len(d.categories), "limit", limit)

	acc := newAccumulator(limit)
	for _, category := range d.categories {
		if ctx.Err() != nil || acc.full() {
			break
		}
		pageURL := fmt.Sprintf("%s/discover/category/%s", d.baseURL, category)
		if err := d.collect(ctx, pageURL, acc); err != nil {
			d.logger.WarnContext(ctx, "category fetch failed", "category", category, "url", pageURL, "error", err)
			continue
		}
	}
	return acc.urls
}

// FromLeaderboard returns every publication link on the leaderboard page.
func (d *Discoverer) FromLeaderboard(ctx context.Context) []string {
	pageURL := d.baseURL + "/discover/leaderboard"
	d.logger.InfoContext(ctx, "discovering from leaderboard", "url", pageURL)

	acc := newAccumulator(0)
	if err := d.collect(ctx, pageURL, acc); err != nil {
		d.logger.WarnContext(ctx, "leaderboard fetch failed", "url", pageURL, "error", err)
	}
	return acc.urls
}

// FromList returns the caller-supplied URLs unchanged.
func (d *Discoverer) FromList(ctx context.Context, urls []string) []string {
	d.logger.InfoContext(ctx, "using provided URLs", "count", len(urls))
	out := make([]string, len(urls))
	copy(out, urls)
	return out
}

// collect visits one listing page and adds publication links to acc.
func (d *Discoverer) collect(ctx context.Context, pageURL string, acc *accumulator) error {
	if err := d.pacer.Wait(ctx); err != nil {
		return err
	}

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(httpclient.UserAgent),
	)
	c.SetClient(d.client)

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if acc.full() {
			return
		}
		link := httpclient.ResolveReference(e.Request.URL.String(), e.Attr("href"))
		if substack.Match(link) {
			acc.add(link)
		}
	})

	before := len(acc.urls)
	if err := c.Visit(pageURL); err != nil {
		return err
	}
	d.logger.DebugContext(ctx, "listing scanned", "url", pageURL, "new", len(acc.urls)-before)
	return nil
}

// accumulator keeps URLs in discovery order without duplicates.
type accumulator struct {
	seen  map[string]bool
	urls  []string
	limit int // 0 means unlimited
}

func newAccumulator(limit int) *accumulator {
	return &accumulator{seen: make(map[string]bool), limit: limit}
}

func (a *accumulator) add(u string) {
	if a.seen[u] || a.full() {
		return
	}
	a.seen[u] = true
	a.urls = append(a.urls, u)
}

func (a *accumulator) full() bool {
	return a.limit > 0 && len(a.urls) >= a.limit
}
