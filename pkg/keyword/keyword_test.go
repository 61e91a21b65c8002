package keyword

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name          string
		keywords      []string
		caseSensitive bool
		text          string
		want          []string
	}{
		{
			name:     "founder and ai in configured order",
			keywords: []string{"founder", "ai"},
			text:     "A newsletter by a Founder exploring AI tools",
			want:     []string{"founder", "ai"},
		},
		{
			name:     "order follows keywords not text",
			keywords: []string{"design", "product"},
			text:     "product and design",
			want:     []string{"design", "product"},
		},
		{
			name:          "case sensitive misses",
			keywords:      []string{"founder", "AI"},
			caseSensitive: true,
			text:          "A Founder exploring AI tools",
			want:          []string{"AI"},
		},
		{
			name:     "substring inside word",
			keywords: []string{"ai"},
			text:     "Weekly notes on training",
			want:     []string{"ai"},
		},
		{
			name:     "empty text",
			keywords: []string{"ai"},
			text:     "",
			want:     nil,
		},
		{
			name:     "duplicate keyword reported once",
			keywords: []string{"ai", "ai"},
			text:     "ai",
			want:     []string{"ai"},
		},
		{
			name:     "empty keyword ignored",
			keywords: []string{"", "growth"},
			text:     "growth loops",
			want:     []string{"growth"},
		},
		{
			name:     "no match",
			keywords: []string{"crypto"},
			text:     "gardening tips",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.keywords, tt.caseSensitive)
			got := m.Match(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestMatchReturnsOnlySubstrings(t *testing.T) {
	keywords := []string{"a", "bc", "Zed", "longer phrase", "x"}
	texts := []string{"", "abc", "ZED zed", "a longer phrase here", "nothing"}

	for _, cs := range []bool{true, false} {
		m := New(keywords, cs)
		for _, text := range texts {
			for _, kw := range m.Match(text) {
				hay, needle := text, kw
				if !cs {
					hay, needle = strings.ToLower(text), strings.ToLower(kw)
				}
				if !strings.Contains(hay, needle) {
					t.Errorf("Match(%q) returned %q which is not a substring (caseSensitive=%v)", text, kw, cs)
				}
			}
		}
	}
}

func TestMatchIdempotent(t *testing.T) {
	m := New([]string{"builder", "founder", "ai"}, false)
	text := "Founders and builders using AI"

	first := m.Match(text)
	second := m.Match(text)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Match differs (-first +second):\n%s", diff)
	}
}

func TestMatchAll(t *testing.T) {
	m := New([]string{"builder", "founder", "product", "ai"}, false)

	got := m.MatchAll("Notes for founders", "AI Product Builder")
	want := []string{"builder", "founder", "product", "ai"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MatchAll mismatch (-want +got):\n%s", diff)
	}

	if got := m.MatchAll("", ""); got != nil {
		t.Errorf("MatchAll on empty texts = %v, want nil", got)
	}
}

func TestKeywordsIsCopy(t *testing.T) {
	m := New([]string{"one", "two"}, true)
	kws := m.Keywords()
	kws[0] = "changed"

	if diff := cmp.Diff([]string{"one", "two"}, m.Keywords()); diff != "" {
		t.Errorf("Keywords mutated through copy (-want +got):\n%s", diff)
	}
	if !m.CaseSensitive() {
		t.Error("CaseSensitive() = false, want true")
	}
}
