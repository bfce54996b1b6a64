package database

import (
	"database/sql"
	"strings"
)

// UpsertArticle inserts an article keyed by URL, overwriting every
// non-key field when the URL already exists. Last write wins.
func (db *DB) UpsertArticle(a Article) error {
	_, err := db.conn.Exec(
		`INSERT INTO articles (url, source, title, content, summary, keywords, published_at, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			source=excluded.source,
			title=excluded.title,
			content=excluded.content,
			summary=excluded.summary,
			keywords=excluded.keywords,
			published_at=excluded.published_at,
			scraped_at=excluded.scraped_at`,
		a.URL, a.Source, a.Title, a.Content, a.Summary, a.Keywords, a.PublishedAt, a.ScrapedAt,
	)
	return err
}

// QueryArticles returns articles matching the filter, most recently
// scraped first. An empty filter returns all rows.
func (db *DB) QueryArticles(f Filter) ([]Article, error) {
	query := `SELECT id, url, source, title, content, summary, keywords, published_at, scraped_at
		FROM articles WHERE 1=1`
	var args []any

	if f.Keyword != "" {
		query += " AND (instr(lower(content), ?) > 0 OR instr(lower(title), ?) > 0 OR instr(lower(summary), ?) > 0)"
		kw := strings.ToLower(f.Keyword)
		args = append(args, kw, kw, kw)
	}
	if len(f.Sources) > 0 {
		query += " AND source IN (?" + strings.Repeat(", ?", len(f.Sources)-1) + ")"
		for _, s := range f.Sources {
			args = append(args, s)
		}
	}
	if f.StartDate != "" {
		query += " AND date(scraped_at) >= date(?)"
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += " AND date(scraped_at) <= date(?)"
		args = append(args, f.EndDate)
	}
	if f.SearchText != "" {
		query += " AND (instr(lower(content), ?) > 0 OR instr(lower(title), ?) > 0 OR instr(lower(summary), ?) > 0)"
		st := strings.ToLower(f.SearchText)
		args = append(args, st, st, st)
	}
	query += " ORDER BY datetime(scraped_at) DESC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetArticleByURL returns a single article, or nil when no row exists.
func (db *DB) GetArticleByURL(url string) (*Article, error) {
	row := db.conn.QueryRow(
		`SELECT id, url, source, title, content, summary, keywords, published_at, scraped_at
		FROM articles WHERE url = ?`, url,
	)
	var a Article
	err := row.Scan(&a.ID, &a.URL, &a.Source, &a.Title, &a.Content,
		&a.Summary, &a.Keywords, &a.PublishedAt, &a.ScrapedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListSources returns the distinct source URLs present in the store.
func (db *DB) ListSources() ([]string, error) {
	rows, err := db.conn.Query("SELECT DISTINCT source FROM articles ORDER BY source")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}
	err := db.conn.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT source), COALESCE(MAX(scraped_at), '') FROM articles`,
	).Scan(&stats.TotalArticles, &stats.Sources, &stats.LastScrapedAt)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.URL, &a.Source, &a.Title, &a.Content,
			&a.Summary, &a.Keywords, &a.PublishedAt, &a.ScrapedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
