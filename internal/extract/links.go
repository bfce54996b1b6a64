// Package extract turns raw HTML into crawl candidates and article text:
// link discovery with same-host filtering, main-content extraction, title
// guessing, and the heuristic that separates articles from boilerplate.
package extract

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FindLinks parses html and returns the absolute URLs of all hyperlinks
// whose host exactly matches baseURL's host. Fragment-only, mailto: and
// javascript: hrefs are discarded. The result is deduplicated and sorted
// so that truncation by the caller is deterministic.
func FindLinks(html, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if skipHref(href) {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Host != base.Host {
			return
		}
		seen[abs.String()] = struct{}{}
	})

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links, nil
}

func skipHref(href string) bool {
	return href == "" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "javascript:")
}
