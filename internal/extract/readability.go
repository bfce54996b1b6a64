package extract

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// ReadabilityText extracts main text using the readability algorithm
// instead of the container heuristic. Selected via the crawl.extractor
// config setting; the container heuristic remains the default.
func ReadabilityText(html, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = nil
	}
	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return ""
	}
	return normalizeSpace(article.TextContent)
}
