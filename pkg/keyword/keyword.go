// Package keyword matches configured keywords against free text.
package keyword

import "strings"

// Matcher reports which configured keywords occur in a text.
// A Matcher holds no mutable state and is safe to reuse.
type Matcher struct {
	keywords      []string
	folded        []string // comparison form of keywords, same index
	caseSensitive bool
}

// New creates a Matcher. Empty keywords are ignored; order is preserved.
func New(keywords []string, caseSensitive bool) *Matcher {
	m := &Matcher{caseSensitive: caseSensitive}
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		m.keywords = append(m.keywords, kw)
		m.folded = append(m.folded, m.fold(kw))
	}
	return m
}

// Keywords returns a copy of the configured keywords.
func (m *Matcher) Keywords() []string {
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}

// CaseSensitive reports whether matching respects case.
func (m *Matcher) CaseSensitive() bool { return m.caseSensitive }

// Match returns the keywords that occur as substrings of text, in configured order.
// Each keyword appears at most once. Empty text yields nil.
func (m *Matcher) Match(text string) []string {
	return m.MatchAll(text)
}

// MatchAll returns the keywords that occur in any of texts, in configured order,
// with duplicates removed.
func (m *Matcher) MatchAll(texts ...string) []string {
	var haystacks []string
	for _, t := range texts {
		if t != "" {
			haystacks = append(haystacks, m.fold(t))
		}
	}
	if len(haystacks) == 0 {
		return nil
	}

	var matched []string
	seen := make(map[string]bool)
	for i, kw := range m.keywords {
		if seen[kw] {
			continue
		}
		for _, h := range haystacks {
			if strings.Contains(h, m.folded[i]) {
				seen[kw] = true
				matched = append(matched, kw)
				break
			}
		}
	}
	return matched
}

func (m *Matcher) fold(s string) string {
	if m.caseSensitive {
		return s
	}
	return strings.ToLower(s)
}
