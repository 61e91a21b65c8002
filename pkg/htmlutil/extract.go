// Package htmlutil provides HTML querying helpers for profile scraping.
package htmlutil

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse parses an HTML document.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// MetaProperty returns the trimmed content of <meta property="...">.
// The second return value reports whether the tag exists at all.
func MetaProperty(doc *goquery.Document, property string) (string, bool) {
	return metaContent(doc, "property", property)
}

// MetaName returns the trimmed content of <meta name="...">.
func MetaName(doc *goquery.Document, name string) (string, bool) {
	return metaContent(doc, "name", name)
}

func metaContent(doc *goquery.Document, attr, value string) (string, bool) {
	var content string
	var found bool
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr(attr)
		if !ok || !strings.EqualFold(v, value) {
			return true
		}
		found = true
		content = strings.TrimSpace(s.AttrOr("content", ""))
		return false
	})
	return content, found
}

// invisible lists elements whose text is never rendered.
var invisible = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// FindText returns the first visible text node matching pattern, or "".
func FindText(doc *goquery.Document, pattern *regexp.Regexp) string {
	var found string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		switch n.Type {
		case html.ElementNode:
			if invisible[n.Data] {
				return false
			}
		case html.TextNode:
			if pattern.MatchString(n.Data) {
				found = strings.TrimSpace(n.Data)
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, n := range doc.Nodes {
		if walk(n) {
			break
		}
	}
	return found
}
