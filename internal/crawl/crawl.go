// Package crawl orchestrates the scrape pipeline: fetch each seed
// source, discover same-host candidate links one level deep, extract and
// summarize article pages, and upsert the results.
package crawl

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/trendscanhq/trendscan/internal/database"
	"github.com/trendscanhq/trendscan/internal/extract"
	"github.com/trendscanhq/trendscan/internal/summarize"
)

// Field limits applied before persisting.
const (
	maxTitleLen   = 300
	maxSummaryLen = 5000
	maxContentLen = 200000
)

// Store is the persistence surface the crawler needs.
type Store interface {
	UpsertArticle(a database.Article) error
}

// Fetcher retrieves a page body, reporting failure as ok=false.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, bool)
}

// Options tune a crawl run.
type Options struct {
	Keywords     []string
	MaxPages     int           // candidate links kept per source
	MaxSentences int           // summary length
	Delay        time.Duration // minimum spacing between page fetches
	Extractor    string        // "container" (default) or "readability"
}

// Result holds the results of a crawl run.
type Result struct {
	Scraped       int
	FailedSources int
	PerSource     map[string]int
}

// Crawler runs the depth-1 scrape pipeline sequentially, one page fetch
// at a time, spaced by a politeness delay.
type Crawler struct {
	store   Store
	fetcher Fetcher
	limiter *rate.Limiter
	opts    Options
}

// New creates a Crawler. Zero option fields get conservative defaults.
func New(store Store, fetcher Fetcher, opts Options) *Crawler {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 8
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = 400 * time.Millisecond
	}
	return &Crawler{
		store:   store,
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
		opts:    opts,
	}
}

// Run crawls every source in order and returns the scrape totals.
func (c *Crawler) Run(ctx context.Context, sources []string) *Result {
	r := &Result{PerSource: make(map[string]int)}

	for _, src := range sources {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}

		log.Printf("Crawling: %s", src)
		if err := c.limiter.Wait(ctx); err != nil {
			return r
		}
		body, ok := c.fetcher.Fetch(ctx, src)
		if !ok {
			log.Printf("Warning: failed to fetch source: %s", src)
			r.FailedSources++
			continue
		}

		links := c.discoverLinks(body, src)
		if len(links) > c.opts.MaxPages {
			links = links[:c.opts.MaxPages]
		}

		for _, pageURL := range links {
			if err := c.limiter.Wait(ctx); err != nil {
				return r
			}
			if c.scrapePage(ctx, src, pageURL) {
				r.Scraped++
				r.PerSource[src]++
			}
		}
	}

	log.Printf("Crawl complete: %d articles scraped, %d sources failed", r.Scraped, r.FailedSources)
	return r
}

// discoverLinks extracts same-host candidate URLs from a seed body,
// treating RSS/Atom documents as lists of entry links.
func (c *Crawler) discoverLinks(body, src string) []string {
	if extract.LooksLikeFeed(body) {
		links, err := extract.FindFeedLinks(body, src)
		if err == nil {
			return links
		}
		log.Printf("Feed parse failed for %s, falling back to anchors", src)
	}
	links, err := extract.FindLinks(body, src)
	if err != nil {
		return nil
	}
	return links
}

// scrapePage runs one candidate link through extraction, the article
// heuristic, and summarization. Returns true when an article was stored.
func (c *Crawler) scrapePage(ctx context.Context, src, pageURL string) bool {
	page, ok := c.fetcher.Fetch(ctx, pageURL)
	if !ok {
		return false
	}

	title := extract.Truncate(extract.GuessTitle(page), maxTitleLen)
	text := c.mainText(page, pageURL)
	if text == "" {
		return false
	}
	if !extract.LooksLikeArticle(pageURL, title, text, c.opts.Keywords) {
		return false
	}

	summary := extract.Truncate(summarize.Summarize(text, c.opts.MaxSentences), maxSummaryLen)
	article := database.Article{
		URL:       pageURL,
		Source:    src,
		Title:     title,
		Content:   extract.Truncate(text, maxContentLen),
		Summary:   summary,
		Keywords:  strings.Join(c.opts.Keywords, ", "),
		ScrapedAt: time.Now().UTC().Format("2006-01-02 15:04:05"),
	}

	if err := c.store.UpsertArticle(article); err != nil {
		// Fatal to the item only; the run keeps its partial progress.
		log.Printf("Failed to store %s: %v", pageURL, err)
		return false
	}

	log.Printf("Saved: %s", title)
	return true
}

func (c *Crawler) mainText(page, pageURL string) string {
	if c.opts.Extractor == "readability" {
		return extract.ReadabilityText(page, pageURL)
	}
	return extract.MainText(page)
}
