// Package server provides the local web UI: a filterable article table,
// CSV export of the current view, a per-article detail page, and a
// button to trigger a scrape run.
package server

import (
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"

	"github.com/trendscanhq/trendscan/internal/database"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// exportColumns is the column set shared by the table view and CSV export.
var exportColumns = []string{"source", "title", "summary", "url", "scraped_at"}

// Scraper triggers a crawl run and reports how many articles were stored.
type Scraper interface {
	Scrape(ctx context.Context) int
}

// Server is the HTTP server for browsing scraped articles.
type Server struct {
	db      *database.DB
	scraper Scraper
	pages   map[string]*template.Template
	mux     *http.ServeMux
}

// New creates a new Server. scraper may be nil, in which case the
// scrape trigger is disabled.
func New(db *database.DB, scraper Scraper) (*Server, error) {
	// Parse base template first
	base, err := template.New("base.html").ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the
	// clone so each page gets its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"index.html", "article.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, scraper: scraper, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/article", s.handleArticle)
	s.mux.HandleFunc("/export.csv", s.handleExport)
	s.mux.HandleFunc("/scrape", s.handleScrape)
}

// filterFromQuery maps the shared filter form fields onto a store filter.
func filterFromQuery(r *http.Request) database.Filter {
	q := r.URL.Query()
	f := database.Filter{
		SearchText: q.Get("search"),
		Keyword:    q.Get("keyword"),
		StartDate:  q.Get("from"),
		EndDate:    q.Get("to"),
	}
	if src := q.Get("source"); src != "" {
		f.Sources = []string{src}
	}
	return f
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	articles, err := s.db.QueryArticles(filterFromQuery(r))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	sources, _ := s.db.ListSources()

	q := r.URL.Query()
	var scraped int
	if v := q.Get("scraped"); v != "" {
		scraped, _ = strconv.Atoi(v)
	}

	s.render(w, "index.html", map[string]any{
		"Articles":     articles,
		"Sources":      sources,
		"Search":       q.Get("search"),
		"Keyword":      q.Get("keyword"),
		"Source":       q.Get("source"),
		"From":         q.Get("from"),
		"To":           q.Get("to"),
		"Scraped":      scraped,
		"JustScraped":  q.Has("scraped"),
		"CanScrape":    s.scraper != nil,
		"ExportParams": template.URL(q.Encode()), //nolint: gosec
	})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	article, err := s.db.GetArticleByURL(url)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if article == nil {
		http.NotFound(w, r)
		return
	}

	s.render(w, "article.html", map[string]any{
		"Article": article,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	articles, err := s.db.QueryArticles(filterFromQuery(r))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="articles_filtered.csv"`)

	cw := csv.NewWriter(w)
	cw.Write(exportColumns)
	for _, a := range articles {
		cw.Write([]string{a.Source, a.Title, a.Summary, a.URL, a.ScrapedAt})
	}
	cw.Flush()
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || s.scraper == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	count := s.scraper.Scrape(r.Context())
	http.Redirect(w, r, fmt.Sprintf("/?scraped=%d", count), http.StatusFound)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, scraper Scraper, port int) error {
	srv, err := New(db, scraper)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
