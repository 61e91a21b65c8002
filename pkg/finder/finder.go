// Package finder drives discovery, extraction and keyword matching for a single run.
//
// A run is strictly sequential: each candidate URL is visited at most once,
// extracted, matched against the configured keywords and, if anything matched,
// kept. The run stops as soon as the configured number of matches is reached.
package finder

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/codeGROOVE-dev/substackfinder/pkg/keyword"
	"github.com/codeGROOVE-dev/substackfinder/pkg/profile"
)

// DefaultMaxProfiles is the default result cutoff.
const DefaultMaxProfiles = 100

// DefaultExploreLimit caps category discovery.
const DefaultExploreLimit = 50

// Extractor turns a URL into a profile or an absent result.
type Extractor interface {
	Extract(ctx context.Context, url string) profile.Result
}

// Discoverer produces candidate URLs.
type Discoverer interface {
	FromCategories(ctx context.Context, limit int) []string
	FromLeaderboard(ctx context.Context) []string
	FromList(ctx context.Context, urls []string) []string
}

// State is the processing state of one candidate URL.
type State string

// Candidate states. Pending and Fetching are transient; Matched and Skipped are terminal.
const (
	StatePending  State = "pending"
	StateFetching State = "fetching"
	StateMatched  State = "matched"
	StateSkipped  State = "skipped"
)

// Progress describes one processed candidate.
type Progress struct {
	Err      error
	URL      string
	State    State
	Reason   string // why a candidate was skipped
	Keywords []string
	Index    int // 1-based position in the candidate list
	Total    int
}

// Skip reasons reported in Progress.Reason.
const (
	ReasonDuplicate = "duplicate"
	ReasonFailed    = "extraction failed"
	ReasonNoBio     = "no bio"
	ReasonNoMatch   = "no keyword match"
)

// Report summarizes a run.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	RunID      string
	Matched    []*profile.Profile
	Candidates int
	Scanned    int // URLs handed to the extractor
	Skipped    int // duplicates, failures, missing bio or no match
	Failed     int // extraction exhausted its retries
	Remaining  int // candidates left unprocessed after the cutoff
	Truncated  bool
}

// Finder orchestrates a run. It is not safe for concurrent use.
type Finder struct {
	matcher      *keyword.Matcher
	extractor    Extractor
	discoverer   Discoverer
	logger       *slog.Logger
	progress     func(Progress)
	now          func() time.Time
	runID        string
	maxProfiles  int
	exploreLimit int
	explore      bool
	leaderboard  bool
}

// Option configures a Finder.
type Option func(*Finder)

// WithMaxProfiles sets the result cutoff.
func WithMaxProfiles(n int) Option {
	return func(f *Finder) { f.maxProfiles = n }
}

// WithDiscoverer sets the source of candidate URLs used when none are supplied.
func WithDiscoverer(d Discoverer) Option {
	return func(f *Finder) { f.discoverer = d }
}

// WithSources enables or disables the category and leaderboard sources.
func WithSources(explore, leaderboard bool) Option {
	return func(f *Finder) {
		f.explore = explore
		f.leaderboard = leaderboard
	}
}

// WithExploreLimit caps the number of URLs taken from category pages.
func WithExploreLimit(n int) Option {
	return func(f *Finder) { f.exploreLimit = n }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithProgress registers a callback invoked once per processed candidate.
func WithProgress(fn func(Progress)) Option {
	return func(f *Finder) { f.progress = fn }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(f *Finder) { f.runID = id }
}

// New creates a Finder.
func New(matcher *keyword.Matcher, extractor Extractor, opts ...Option) *Finder {
	f := &Finder{
		matcher:      matcher,
		extractor:    extractor,
		logger:       slog.Default(),
		now:          time.Now,
		maxProfiles:  DefaultMaxProfiles,
		exploreLimit: DefaultExploreLimit,
		explore:      true,
		leaderboard:  true,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.runID == "" {
		f.runID = uuid.NewString()
	}
	if f.maxProfiles <= 0 {
		f.maxProfiles = DefaultMaxProfiles
	}
	f.logger = f.logger.With("run_id", f.runID)
	return f
}

// RunID returns the identifier attached to this Finder's logs and reports.
func (f *Finder) RunID() string { return f.runID }

// Candidates assembles the URLs to scan. A non-empty explicit list bypasses
// discovery entirely. The result holds each distinct URL string once, in
// first-seen order.
func (f *Finder) Candidates(ctx context.Context, explicit []string) []string {
	var urls []string
	switch {
	case len(explicit) > 0:
		if f.discoverer != nil {
			urls = f.discoverer.FromList(ctx, explicit)
		} else {
			urls = explicit
		}
	case f.discoverer == nil:
		f.logger.WarnContext(ctx, "no discoverer configured and no URLs supplied")
	default:
		if f.explore {
			urls = append(urls, f.discoverer.FromCategories(ctx, f.exploreLimit)...)
		}
		if f.leaderboard {
			urls = append(urls, f.discoverer.FromLeaderboard(ctx)...)
		}
	}

	unique := Dedupe(urls)
	f.logger.InfoContext(ctx, "candidates assembled", "discovered", len(urls), "unique", len(unique))
	return unique
}

// Dedupe removes repeated URL strings, keeping the first occurrence.
func Dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// Run processes candidates in order. It returns an error only when ctx is
// cancelled; the partial report is returned alongside it.
func (f *Finder) Run(ctx context.Context, candidates []string) (*Report, error) {
	rep := &Report{
		RunID:      f.runID,
		StartedAt:  f.now(),
		Candidates: len(candidates),
	}
	defer func() { rep.FinishedAt = f.now() }()

	f.logger.InfoContext(ctx, "scanning profiles", "candidates", len(candidates), "max_profiles", f.maxProfiles)

	visited := make(map[string]bool, len(candidates))
	for i, u := range candidates {
		if len(rep.Matched) >= f.maxProfiles {
			rep.Truncated = true
			rep.Remaining = len(candidates) - i
			f.logger.InfoContext(ctx, "reached maximum profiles", "max_profiles", f.maxProfiles, "remaining", rep.Remaining)
			break
		}
		if err := ctx.Err(); err != nil {
			rep.Remaining = len(candidates) - i
			return rep, err
		}

		p := Progress{URL: u, Index: i + 1, Total: len(candidates), State: StatePending}
		if visited[u] {
			rep.Skipped++
			p.State, p.Reason = StateSkipped, ReasonDuplicate
			f.report(ctx, p)
			continue
		}
		visited[u] = true

		p.State = StateFetching
		f.logger.DebugContext(ctx, "fetching", "url", u, "index", p.Index, "total", p.Total)
		rep.Scanned++
		res := f.extractor.Extract(ctx, u)

		switch prof, kws := f.evaluate(res); {
		case res.Err != nil || res.Profile == nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				rep.Remaining = len(candidates) - i
				return rep, ctxErr
			}
			rep.Failed++
			rep.Skipped++
			p.State, p.Reason, p.Err = StateSkipped, ReasonFailed, res.Err
		case prof == nil && res.Profile.Bio == "":
			rep.Skipped++
			p.State, p.Reason = StateSkipped, ReasonNoBio
		case prof == nil:
			rep.Skipped++
			p.State, p.Reason = StateSkipped, ReasonNoMatch
		default:
			rep.Matched = append(rep.Matched, prof)
			p.State, p.Keywords = StateMatched, kws
			f.logger.InfoContext(ctx, "found profile", "name", prof.Name, "handle", prof.Handle, "keywords", kws)
		}
		f.report(ctx, p)
	}

	f.logger.InfoContext(ctx, "scan complete",
		"matched", len(rep.Matched), "scanned", rep.Scanned, "skipped", rep.Skipped, "failed", rep.Failed)
	return rep, nil
}

// evaluate returns the matched profile and its keywords, or nil when the
// extraction result is excluded. A missing bio excludes the profile whatever its name says.
func (f *Finder) evaluate(res profile.Result) (*profile.Profile, []string) {
	if res.Err != nil || res.Profile == nil || res.Profile.Bio == "" {
		return nil, nil
	}
	kws := f.matcher.MatchAll(res.Profile.Bio, res.Profile.Name)
	if len(kws) == 0 {
		return nil, nil
	}
	return res.Profile.WithMatches(kws), kws
}

func (f *Finder) report(ctx context.Context, p Progress) {
	if p.State == StateSkipped {
		f.logger.DebugContext(ctx, "skipped", "url", p.URL, "reason", p.Reason, "error", p.Err)
	}
	if f.progress != nil {
		f.progress(p)
	}
}
