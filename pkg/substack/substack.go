// Package substack extracts newsletter profile metadata from Substack publication pages.
package substack

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/retry"

	"github.com/codeGROOVE-dev/substackfinder/pkg/htmlutil"
	"github.com/codeGROOVE-dev/substackfinder/pkg/httpclient"
	"github.com/codeGROOVE-dev/substackfinder/pkg/profile"
)

// DefaultMaxRetries is the number of fetch attempts made per URL.
const DefaultMaxRetries = 3

// DefaultBackoffUnit is multiplied by 2^attempt between attempts.
const DefaultBackoffUnit = time.Second

// DefaultMaxBackoff caps a single wait between attempts.
const DefaultMaxBackoff = 5 * time.Minute

// Match returns true if the URL is hosted on a Substack subdomain.
func Match(urlStr string) bool {
	u, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return strings.HasSuffix(host, profile.PlatformSuffix) && len(host) > len(profile.PlatformSuffix)
}

// Client extracts profiles from publication pages.
type Client struct {
	httpClient  *http.Client
	pacer       *httpclient.Pacer
	logger      *slog.Logger
	now         func() time.Time
	maxRetries  int
	backoffUnit time.Duration
	maxBackoff  time.Duration
}

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient  *http.Client
	logger      *slog.Logger
	now         func() time.Time
	rateLimit   time.Duration
	maxRetries  int
	backoffUnit time.Duration
	maxBackoff  time.Duration
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHTTPClient sets the HTTP client used for page fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// WithMaxRetries sets the total number of attempts per URL.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.maxRetries = n }
}

// WithRateLimit sets the fixed pause taken before every attempt.
func WithRateLimit(d time.Duration) Option {
	return func(c *config) { c.rateLimit = d }
}

// WithBackoffUnit sets the base unit of the exponential backoff.
func WithBackoffUnit(d time.Duration) Option {
	return func(c *config) { c.backoffUnit = d }
}

// WithMaxBackoff caps the wait between two attempts.
func WithMaxBackoff(d time.Duration) Option {
	return func(c *config) { c.maxBackoff = d }
}

// WithClock sets the time source for DiscoveredAt.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// New creates a Substack client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{
		logger:      slog.Default(),
		now:         time.Now,
		maxRetries:  DefaultMaxRetries,
		backoffUnit: DefaultBackoffUnit,
		maxBackoff:  DefaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxRetries < 1 {
		return nil, fmt.Errorf("max retries must be positive, got %d", cfg.maxRetries)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = httpclient.New(httpclient.DefaultTimeout)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.maxBackoff <= 0 {
		cfg.maxBackoff = DefaultMaxBackoff
	}

	return &Client{
		httpClient:  cfg.httpClient,
		pacer:       httpclient.NewPacer(cfg.rateLimit),
		logger:      cfg.logger,
		now:         cfg.now,
		maxRetries:  cfg.maxRetries,
		backoffUnit: cfg.backoffUnit,
		maxBackoff:  cfg.maxBackoff,
	}, nil
}

// Extract fetches and parses a publication page.
// Every attempt is preceded by the rate-limit pause; failed attempts are retried
// after 2^attempt backoff units, capped at the maximum backoff, until the retry budget is spent. Exhaustion yields
// a Result without a Profile; it is never returned as an error.
func (c *Client) Extract(ctx context.Context, urlStr string) profile.Result {
	attempts := 0
	prof, err := retry.DoWithData(
		func() (*profile.Profile, error) {
			attempts++
			if err := c.pacer.Wait(ctx); err != nil {
				return nil, retry.Unrecoverable(err)
			}
			body, err := httpclient.Get(ctx, c.httpClient, urlStr, c.logger)
			if err != nil {
				return nil, err
			}
			return parseProfile(body, urlStr, c.now())
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)), //nolint:gosec // validated positive in New
		retry.LastErrorOnly(true),
		retry.MaxDelay(c.maxBackoff),
		retry.DelayType(func(_ uint, _ error, _ *retry.Config) time.Duration {
			// attempts is the zero-based index of the next attempt.
			return backoff(c.backoffUnit, c.maxBackoff, attempts)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.DebugContext(ctx, "extraction attempt failed", "url", urlStr, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		c.logger.WarnContext(ctx, "giving up on profile", "url", urlStr, "attempts", attempts, "error", err)
		return profile.Result{URL: urlStr, Attempts: attempts, Err: err}
	}

	c.logger.DebugContext(ctx, "extracted profile", "url", urlStr, "handle", prof.Handle, "attempts", attempts)
	return profile.Result{URL: urlStr, Attempts: attempts, Profile: prof}
}

// backoff returns unit*2^attempt, or limit once that would be reached.
// Doubling stops at the cap so large attempt counts never overflow.
func backoff(unit, limit time.Duration, attempt int) time.Duration {
	d := unit
	for range attempt {
		if d >= limit/2 {
			return limit
		}
		d *= 2
	}
	return min(d, limit)
}

// Fetch retrieves a profile, returning the final extraction error when none could be built.
func (c *Client) Fetch(ctx context.Context, urlStr string) (*profile.Profile, error) {
	res := c.Extract(ctx, urlStr)
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Profile == nil {
		return nil, profile.ErrProfileNotFound
	}
	return res.Profile, nil
}

var (
	subscriberText  = regexp.MustCompile(`(?i)subscribers?`)
	subscriberCount = regexp.MustCompile(`\d[\d,]*`)
)

func parseProfile(body []byte, urlStr string, now time.Time) (*profile.Profile, error) {
	doc, err := htmlutil.Parse(body)
	if err != nil {
		return nil, err
	}

	prof := &profile.Profile{
		URL:          urlStr,
		Handle:       profile.Handle(urlStr),
		DiscoveredAt: now,
	}

	prof.Name, _ = htmlutil.MetaProperty(doc, "og:site_name")
	prof.Bio = bio(doc)
	prof.ProfileImage, _ = htmlutil.MetaProperty(doc, "og:image")
	prof.Subscribers = subscribers(doc)

	return prof, nil
}

func bio(doc *goquery.Document) string {
	if desc, _ := htmlutil.MetaProperty(doc, "og:description"); desc != "" {
		return desc
	}
	desc, _ := htmlutil.MetaName(doc, "description")
	return desc
}

// subscribers is best effort: the first number in the first visible text
// mentioning subscribers. It may be absent or wrong when markup changes.
func subscribers(doc *goquery.Document) string {
	text := htmlutil.FindText(doc, subscriberText)
	if text == "" {
		return ""
	}
	n := subscriberCount.FindString(text)
	return strings.ReplaceAll(n, ",", "")
}
