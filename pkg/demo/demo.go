// Package demo provides sample publications and an offline extractor so the
// full pipeline can be shown without network access.
package demo

import (
	"context"
	"time"

	"github.com/codeGROOVE-dev/substackfinder/pkg/profile"
)

// Keywords are the default keywords for demo runs.
var Keywords = []string{"builder", "founder", "product", "design", "ai"}

// Profiles returns fresh copies of the sample publications stamped with now.
func Profiles(now time.Time) []*profile.Profile {
	return []*profile.Profile{
		{
			URL:          "https://lenny.substack.com",
			Handle:       "lenny",
			Name:         "Lenny's Newsletter",
			Bio:          "A weekly advice column about product management, growth, working with humans, and anything else that's stressing you out about work. By Lenny Rachitsky, ex-Airbnb product lead.",
			Subscribers:  "500000",
			ProfileImage: "https://example.com/lenny.jpg",
			DiscoveredAt: now,
		},
		{
			URL:          "https://digitalnative.substack.com",
			Handle:       "digitalnative",
			Name:         "Not Boring",
			Bio:          "Weekly essays on strategy, technology, and business. Written by Packy McCormick, founder and investor.",
			Subscribers:  "150000",
			ProfileImage: "https://example.com/packy.jpg",
			DiscoveredAt: now,
		},
		{
			URL:          "https://every.to",
			Handle:       "every.to",
			Name:         "Every",
			Bio:          "A bundle of business-focused newsletters by founders, builders, and operators building tools powered by AI to help you do better work.",
			Subscribers:  "75000",
			ProfileImage: "https://example.com/every.jpg",
			DiscoveredAt: now,
		},
		{
			URL:          "https://future.com",
			Handle:       "future.com",
			Name:         "Future",
			Bio:          "Essays about design, technology, and human-centered innovation. By a product designer at Google.",
			Subscribers:  "25000",
			ProfileImage: "https://example.com/future.jpg",
			DiscoveredAt: now,
		},
		{
			URL:          "https://aiexplained.substack.com",
			Handle:       "aiexplained",
			Name:         "AI Explained",
			Bio:          "Breaking down the latest developments in artificial intelligence and machine learning for founders and builders in the AI space.",
			Subscribers:  "50000",
			ProfileImage: "https://example.com/ai.jpg",
			DiscoveredAt: now,
		},
		{
			URL:          "https://startup.substack.com",
			Handle:       "startup",
			Name:         "Startup Stories",
			Bio:          "Weekly interviews and lessons from successful entrepreneurs, covering everything from first hire to IPO.",
			Subscribers:  "30000",
			ProfileImage: "https://example.com/startup.jpg",
			DiscoveredAt: now,
		},
	}
}

// Extractor serves profiles from memory. URLs it does not know yield
// profile.ErrProfileNotFound after a single attempt.
type Extractor struct {
	profiles map[string]*profile.Profile
	urls     []string
}

// NewExtractor creates an Extractor over the given profiles.
func NewExtractor(profiles []*profile.Profile) *Extractor {
	e := &Extractor{profiles: make(map[string]*profile.Profile, len(profiles))}
	for _, p := range profiles {
		if _, dup := e.profiles[p.URL]; !dup {
			e.urls = append(e.urls, p.URL)
		}
		e.profiles[p.URL] = p
	}
	return e
}

// URLs returns the known URLs in insertion order.
func (e *Extractor) URLs() []string {
	return append([]string(nil), e.urls...)
}

// Extract implements finder.Extractor.
func (e *Extractor) Extract(ctx context.Context, url string) profile.Result {
	if err := ctx.Err(); err != nil {
		return profile.Result{URL: url, Attempts: 1, Err: err}
	}
	p, ok := e.profiles[url]
	if !ok {
		return profile.Result{URL: url, Attempts: 1, Err: profile.ErrProfileNotFound}
	}
	return profile.Result{URL: url, Attempts: 1, Profile: p}
}
