package htmlutil

import (
	"regexp"
	"testing"
)

const page = `<!DOCTYPE html>
<html>
<head>
<title>12 subscribers in the title</title>
<meta property="og:site_name" content="  Tech Insights ">
<meta property="og:description" content="">
<meta name="Description" content="Deep dives into technology.">
<meta property="og:image">
<script>var x = "99 subscribers";</script>
</head>
<body>
<style>.a:after { content: "5 subscribers"; }</style>
<div><span>Join 10,234 subscribers</span></div>
<p>More than 20 subscribers</p>
<a href="https://one.substack.com">One</a>
<a href="/relative">Rel</a>
<a href="   ">Blank</a>
<a>No href</a>
</body>
</html>`

func TestMeta(t *testing.T) {
	doc, err := Parse([]byte(page))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name      string
		lookup    func() (string, bool)
		want      string
		wantFound bool
	}{
		{"property trimmed", func() (string, bool) { return MetaProperty(doc, "og:site_name") }, "Tech Insights", true},
		{"property present but empty", func() (string, bool) { return MetaProperty(doc, "og:description") }, "", true},
		{"property without content", func() (string, bool) { return MetaProperty(doc, "og:image") }, "", true},
		{"property missing", func() (string, bool) { return MetaProperty(doc, "og:title") }, "", false},
		{"name case insensitive", func() (string, bool) { return MetaName(doc, "description") }, "Deep dives into technology.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := tt.lookup()
			if got != tt.want || found != tt.wantFound {
				t.Errorf("got (%q, %v), want (%q, %v)", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestFindTextSkipsInvisible(t *testing.T) {
	doc, err := Parse([]byte(page))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := FindText(doc, regexp.MustCompile(`(?i)subscribers?`))
	if want := "Join 10,234 subscribers"; got != want {
		t.Errorf("FindText() = %q, want %q", got, want)
	}

	if got := FindText(doc, regexp.MustCompile(`nonexistent`)); got != "" {
		t.Errorf("FindText(no match) = %q, want empty", got)
	}
}
