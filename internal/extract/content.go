package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var contentIDPattern = regexp.MustCompile(`(?i)content|main`)

// MainText extracts the visible block text of a page's primary content
// container. Preference order: the first <article>, else the first <main>
// or the first element whose id matches "content" or "main"
// case-insensitively, else the whole document. Text comes from paragraph
// and list-item nodes, whitespace-collapsed and trimmed. Returns "" when
// no such nodes exist.
func MainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	container := doc.Selection
	if article := doc.Find("article").First(); article.Length() > 0 {
		container = article
	} else if main := doc.Find("main").First(); main.Length() > 0 {
		container = main
	} else if byID := findByID(doc); byID != nil {
		container = byID
	}

	var parts []string
	container.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		if t := normalizeSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// findByID returns the first element whose id attribute matches the
// content/main pattern, or nil.
func findByID(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		if contentIDPattern.MatchString(id) {
			found = s
			return false
		}
		return true
	})
	return found
}

// GuessTitle returns the document's <title> text if non-empty after
// trimming, else the text of the first <h1>, else "".
func GuessTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if title := normalizeSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return normalizeSpace(doc.Find("h1").First().Text())
}

// Truncate caps s at n bytes without splitting a multi-byte rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
