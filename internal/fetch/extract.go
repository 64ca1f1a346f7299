package fetch

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// MinCandidateLength is the length a selector match must exceed to be a candidate.
	MinCandidateLength = 400
	// MinDocumentLength is the length whole-document text must exceed when no candidate matched.
	MinDocumentLength = 200
	// MaxExtractedLength caps the selected candidate.
	MaxExtractedLength = 20000
)

// strippedTags never contribute text.
const strippedTags = "script, style, noscript, iframe"

// StaticSelectors returns the prioritized job-body selectors for static HTML.
func StaticSelectors() []string {
	return []string{
		"main",
		"article",
		"[role=main]",
		"#jobDescriptionText",
		".jobDescription",
		".jobs-description__container",
		".description",
		".content",
		".posting",
		".jobsearch-JobComponent",
	}
}

// RenderSelectors returns the selectors awaited and evaluated on browser-rendered HTML.
func RenderSelectors() []string {
	return []string{
		"article",
		"main",
		"[role=main]",
		"#jobDescriptionText",
		".jobDescription",
		".jobs-description__container",
		".css-1p0xpbo",
		".css-1m3kac1",
		".description",
		".content",
	}
}

// ExtractJobText returns the most likely job posting body in rawHTML.
// Every element matched by a selector whose text exceeds MinCandidateLength is a
// candidate and the longest wins, capped at MaxExtractedLength. Without a candidate the
// whole document text is returned if it exceeds MinDocumentLength, otherwise "".
func ExtractJobText(rawHTML string, selectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(strippedTags).Remove()

	var candidates []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := selectionText(s)
			if utf8.RuneCountInString(text) > MinCandidateLength {
				candidates = append(candidates, text)
			}
		})
	}

	if len(candidates) == 0 {
		text := selectionText(doc.Selection)
		if utf8.RuneCountInString(text) > MinDocumentLength {
			return text, nil
		}
		return "", nil
	}

	return truncateRunes(longest(candidates), MaxExtractedLength), nil
}

// longest returns the first of the longest strings.
func longest(candidates []string) string {
	best, bestLen := "", -1
	for _, c := range candidates {
		if n := utf8.RuneCountInString(c); n > bestLen {
			best, bestLen = c, n
		}
	}
	return best
}

// selectionText joins every non-blank text node under s, trimmed, with newlines.
func selectionText(s *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
