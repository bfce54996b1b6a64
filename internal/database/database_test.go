package database

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testArticle(url, scrapedAt string) Article {
	return Article{
		URL:       url,
		Source:    "https://example.com",
		Title:     "Title",
		Content:   "Content body",
		Summary:   "Summary line",
		Keywords:  "ai, cloud",
		ScrapedAt: scrapedAt,
	}
}

func TestUpsertInsertsRow(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertArticle(testArticle("https://example.com/a", "2024-01-10 08:00:00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := db.GetArticleByURL("https://example.com/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Title != "Title" {
		t.Errorf("expected stored article, got %+v", got)
	}
}

func TestUpsertSameURLIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	first := testArticle("https://example.com/a", "2024-01-10 08:00:00")
	db.UpsertArticle(first)

	second := first
	second.Title = "Updated Title"
	second.Content = "New content"
	second.ScrapedAt = "2024-01-11 09:30:00"
	if err := db.UpsertArticle(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := db.QueryArticles(Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly 1 row after re-upsert, got %d", len(all))
	}
	if all[0].Title != "Updated Title" || all[0].Content != "New content" {
		t.Errorf("expected second write to win, got %+v", all[0])
	}
	if all[0].ScrapedAt != "2024-01-11 09:30:00" {
		t.Errorf("expected scraped_at overwritten, got %q", all[0].ScrapedAt)
	}
}

func TestQueryNoFiltersReturnsAllNewestFirst(t *testing.T) {
	db := openTestDB(t)
	db.UpsertArticle(testArticle("https://example.com/old", "2024-01-01 08:00:00"))
	db.UpsertArticle(testArticle("https://example.com/new", "2024-02-01 08:00:00"))
	db.UpsertArticle(testArticle("https://example.com/mid", "2024-01-15 08:00:00"))

	all, err := db.QueryArticles(Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	want := []string{"https://example.com/new", "https://example.com/mid", "https://example.com/old"}
	for i, w := range want {
		if all[i].URL != w {
			t.Errorf("row %d: expected %s, got %s", i, w, all[i].URL)
		}
	}
}

func TestQueryKeywordFilter(t *testing.T) {
	db := openTestDB(t)
	a := testArticle("https://example.com/a", "2024-01-10 08:00:00")
	a.Content = "Quantum computing breakthrough"
	db.UpsertArticle(a)

	b := testArticle("https://example.com/b", "2024-01-10 09:00:00")
	b.Content = "Sports results"
	b.Title = "Match report"
	b.Summary = "Teams played"
	db.UpsertArticle(b)

	got, err := db.QueryArticles(Filter{Keyword: "QUANTUM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://example.com/a" {
		t.Errorf("expected keyword match on content, got %+v", got)
	}

	// Keyword also matches title and summary.
	got, _ = db.QueryArticles(Filter{Keyword: "match report"})
	if len(got) != 1 || got[0].URL != "https://example.com/b" {
		t.Errorf("expected keyword match on title, got %+v", got)
	}
}

func TestQuerySourcesFilter(t *testing.T) {
	db := openTestDB(t)
	a := testArticle("https://one.com/a", "2024-01-10 08:00:00")
	a.Source = "https://one.com"
	db.UpsertArticle(a)

	b := testArticle("https://two.com/b", "2024-01-10 09:00:00")
	b.Source = "https://two.com"
	db.UpsertArticle(b)

	got, err := db.QueryArticles(Filter{Sources: []string{"https://one.com"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Source != "https://one.com" {
		t.Errorf("expected single source match, got %+v", got)
	}
}

func TestQueryDateRangeInclusive(t *testing.T) {
	db := openTestDB(t)
	db.UpsertArticle(testArticle("https://example.com/before", "2023-12-31 23:59:00"))
	db.UpsertArticle(testArticle("https://example.com/first", "2024-01-01 00:10:00"))
	db.UpsertArticle(testArticle("https://example.com/last", "2024-01-31 23:00:00"))
	db.UpsertArticle(testArticle("https://example.com/after", "2024-02-01 00:01:00"))

	got, err := db.QueryArticles(Filter{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows in range, got %d", len(got))
	}
	// Newest first.
	if got[0].URL != "https://example.com/last" || got[1].URL != "https://example.com/first" {
		t.Errorf("unexpected rows or order: %+v", got)
	}
}

func TestQueryFiltersAreANDed(t *testing.T) {
	db := openTestDB(t)
	a := testArticle("https://example.com/a", "2024-01-10 08:00:00")
	a.Content = "cloud infrastructure spending"
	db.UpsertArticle(a)

	b := testArticle("https://example.com/b", "2024-03-10 08:00:00")
	b.Content = "cloud gaming review"
	db.UpsertArticle(b)

	got, err := db.QueryArticles(Filter{
		Keyword:   "cloud",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://example.com/a" {
		t.Errorf("expected combined filters to match one row, got %+v", got)
	}
}

func TestQuerySearchTextIndependentOfKeyword(t *testing.T) {
	db := openTestDB(t)
	a := testArticle("https://example.com/a", "2024-01-10 08:00:00")
	a.Content = "edge computing and cloud failover"
	db.UpsertArticle(a)

	got, err := db.QueryArticles(Filter{Keyword: "cloud", SearchText: "edge"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected both substring filters to match, got %+v", got)
	}

	got, _ = db.QueryArticles(Filter{Keyword: "cloud", SearchText: "kubernetes"})
	if len(got) != 0 {
		t.Errorf("expected non-matching search_text to exclude row, got %+v", got)
	}
}

func TestGetArticleByURLMissing(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetArticleByURL("https://example.com/nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing URL, got %+v", got)
	}
}

func TestListSources(t *testing.T) {
	db := openTestDB(t)
	a := testArticle("https://one.com/a", "2024-01-10 08:00:00")
	a.Source = "https://one.com"
	db.UpsertArticle(a)
	b := testArticle("https://one.com/b", "2024-01-10 09:00:00")
	b.Source = "https://one.com"
	db.UpsertArticle(b)
	c := testArticle("https://two.com/c", "2024-01-10 10:00:00")
	c.Source = "https://two.com"
	db.UpsertArticle(c)

	sources, err := db.ListSources()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 || sources[0] != "https://one.com" || sources[1] != "https://two.com" {
		t.Errorf("unexpected sources: %v", sources)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalArticles != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	db.UpsertArticle(testArticle("https://example.com/a", "2024-01-10 08:00:00"))
	db.UpsertArticle(testArticle("https://example.com/b", "2024-01-12 08:00:00"))

	stats, err = db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalArticles != 2 || stats.Sources != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.LastScrapedAt != "2024-01-12 08:00:00" {
		t.Errorf("unexpected last scrape time: %q", stats.LastScrapedAt)
	}
}
