package extract

import (
	"net/url"
	"sort"
	"strings"

	"github.com/mmcdole/gofeed"
)

// LooksLikeFeed reports whether body appears to be an RSS or Atom document
// rather than an HTML page.
func LooksLikeFeed(body string) bool {
	head := strings.TrimSpace(body)
	if len(head) > 512 {
		head = head[:512]
	}
	lower := strings.ToLower(head)
	if !strings.HasPrefix(lower, "<?xml") && !strings.HasPrefix(lower, "<rss") && !strings.HasPrefix(lower, "<feed") {
		return false
	}
	return strings.Contains(lower, "<rss") || strings.Contains(lower, "<feed")
}

// FindFeedLinks extracts entry links from an RSS/Atom document, applying
// the same policy as FindLinks: absolute URLs only, host identical to the
// feed's own host, deduplicated and sorted.
func FindFeedLinks(body, feedURL string) ([]string, error) {
	base, err := url.Parse(feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			link = strings.TrimSpace(item.GUID)
		}
		if link == "" {
			continue
		}
		ref, err := url.Parse(link)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if abs.Host != base.Host {
			continue
		}
		seen[abs.String()] = struct{}{}
	}

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links, nil
}
