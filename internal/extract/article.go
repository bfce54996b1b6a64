package extract

import (
	"net/url"
	"strings"
)

// boilerplateSuffixes are URL path endings that mark navigation and legal
// pages rather than articles.
var boilerplateSuffixes = []string{"/about", "/contact", "/privacy", "/terms"}

// LooksLikeArticle decides whether an extracted page qualifies as a genuine
// article. Rules, in order: accept any text of at least 200 words; accept a
// case-insensitive keyword match against title+text; reject known
// boilerplate URL suffixes; reject everything else.
func LooksLikeArticle(pageURL, title, text string, keywords []string) bool {
	if len(strings.Fields(text)) >= 200 {
		return true
	}

	if len(keywords) > 0 {
		haystack := strings.ToLower(title + " " + text)
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(haystack, kw) {
				return true
			}
		}
	}

	if isBoilerplateURL(pageURL) {
		return false
	}
	return false
}

func isBoilerplateURL(pageURL string) bool {
	path := pageURL
	if u, err := url.Parse(pageURL); err == nil {
		path = u.Path
	}
	path = strings.TrimSuffix(path, "/")
	for _, suffix := range boilerplateSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
