// Package profile defines the newsletter profile record produced by extraction.
package profile

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Common errors returned by extraction and matching.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoBio           = errors.New("profile has no bio")
)

// PlatformSuffix is the hostname suffix of hosted publications.
const PlatformSuffix = ".substack.com"

// Profile represents metadata extracted from a publication's landing page.
// A Profile is not modified after extraction; WithMatches returns a copy.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	URL          string `json:"url"`                     // Source URL as fetched
	Handle       string `json:"handle"`                  // Subdomain label, or full hostname
	Name         string `json:"name,omitempty"`          // og:site_name
	Bio          string `json:"bio,omitempty"`           // og:description or meta description
	Subscribers  string `json:"subscribers,omitempty"`   // Best effort, digits only
	ProfileImage string `json:"profile_image,omitempty"` // og:image

	DiscoveredAt time.Time `json:"discovered_at"`

	MatchedKeywords []string `json:"matched_keywords"`
}

// WithMatches returns a copy of p carrying the given keywords.
func (p *Profile) WithMatches(keywords []string) *Profile {
	cp := *p
	cp.MatchedKeywords = append([]string(nil), keywords...)
	return &cp
}

// Result is the outcome of extracting a single URL: either a Profile, or an
// absent profile with the reason it could not be produced.
type Result struct {
	Profile  *Profile
	Err      error
	URL      string
	Attempts int
}

// Found reports whether extraction produced a profile.
func (r Result) Found() bool { return r.Profile != nil }

// Handle derives the short identifier for a publication URL.
// "https://lenny.substack.com/about" yields "lenny"; custom domains yield the full hostname.
func Handle(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if sub, ok := strings.CutSuffix(host, PlatformSuffix); ok && sub != "" {
		return sub
	}
	return host
}
