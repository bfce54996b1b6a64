package database

// Article is a persisted scrape result, keyed by URL.
type Article struct {
	ID          int64
	URL         string
	Source      string
	Title       string
	Content     string
	Summary     string
	Keywords    string // comma-joined
	PublishedAt string // currently never populated
	ScrapedAt   string // "2006-01-02 15:04:05" UTC
}

// Filter narrows an article query. Zero-value fields are ignored; all
// supplied filters are ANDed.
type Filter struct {
	Keyword    string   // case-insensitive substring of content, title, or summary
	Sources    []string // set membership on source
	StartDate  string   // inclusive date-only lower bound on scraped_at (YYYY-MM-DD)
	EndDate    string   // inclusive date-only upper bound on scraped_at (YYYY-MM-DD)
	SearchText string   // same semantics as Keyword, applied independently
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalArticles int
	Sources       int
	LastScrapedAt string
}
