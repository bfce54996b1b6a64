package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/trendscanhq/trendscan/internal/config"
	"github.com/trendscanhq/trendscan/internal/crawl"
	"github.com/trendscanhq/trendscan/internal/database"
	"github.com/trendscanhq/trendscan/internal/fetch"
	"github.com/trendscanhq/trendscan/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "trendscan",
	Short:   "Market trends crawler and summarizer",
	Long:    "trendscan crawls seed sources one link deep, extracts article pages, summarizes them, and keeps the results in a local, filterable store.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("trendscan", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/trendscan/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure sources, keywords, and crawl limits.")
		return nil
	},
}

// --- scrape command ---

var (
	maxPagesFlag     int
	maxSentencesFlag int
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Crawl configured sources and store summarized articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Sources) == 0 {
			return fmt.Errorf("no sources configured; edit your config file")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		crawler := newCrawler(db)
		result := crawler.Run(context.Background(), cfg.Sources)

		fmt.Println("\nScrape complete:")
		fmt.Printf("  Articles saved: %d\n", result.Scraped)
		if result.FailedSources > 0 {
			fmt.Printf("  Sources failed: %d\n", result.FailedSources)
		}

		if len(result.PerSource) > 0 {
			fmt.Println("\nArticles by source:")
			type kv struct {
				key string
				val int
			}
			var sorted []kv
			for k, v := range result.PerSource {
				sorted = append(sorted, kv{k, v})
			}
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].val > sorted[j].val })
			for _, s := range sorted {
				fmt.Printf("  %s: %d\n", s.key, s.val)
			}
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&maxPagesFlag, "max-pages", 0, "Override max pages per source")
	scrapeCmd.Flags().IntVar(&maxSentencesFlag, "max-sentences", 0, "Override summary length in sentences")
}

// --- list / export commands ---

var (
	filterKeyword string
	filterSearch  string
	filterSources []string
	filterFrom    string
	filterTo      string
	listLimit     int
	exportOutput  string
)

func queryFilter() database.Filter {
	return database.Filter{
		Keyword:    filterKeyword,
		SearchText: filterSearch,
		Sources:    filterSources,
		StartDate:  filterFrom,
		EndDate:    filterTo,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterKeyword, "keyword", "", "Substring match on content, title, or summary")
	cmd.Flags().StringVar(&filterSearch, "search", "", "Additional substring match, ANDed with --keyword")
	cmd.Flags().StringArrayVar(&filterSources, "source", nil, "Restrict to a source (repeatable)")
	cmd.Flags().StringVar(&filterFrom, "from", "", "Inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filterTo, "to", "", "Inclusive end date (YYYY-MM-DD)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored articles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		articles, err := db.QueryArticles(queryFilter())
		if err != nil {
			return err
		}
		if len(articles) == 0 {
			fmt.Println("No articles match. Run 'trendscan scrape' to collect some.")
			return nil
		}
		if listLimit > 0 && len(articles) > listLimit {
			articles = articles[:listLimit]
		}

		for _, a := range articles {
			fmt.Printf("%s  %s\n", a.ScrapedAt, a.Title)
			fmt.Printf("    %s\n", a.URL)
			if a.Summary != "" {
				fmt.Printf("    %s\n", a.Summary)
			}
			fmt.Println()
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered articles as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		articles, err := db.QueryArticles(queryFilter())
		if err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		cw := csv.NewWriter(out)
		if err := cw.Write([]string{"source", "title", "summary", "url", "scraped_at"}); err != nil {
			return err
		}
		for _, a := range articles {
			if err := cw.Write([]string{a.Source, a.Title, a.Summary, a.URL, a.ScrapedAt}); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}

		if exportOutput != "" {
			fmt.Printf("Exported %d articles to %s\n", len(articles), exportOutput)
		}
		return nil
	},
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum rows to print (0 = all)")
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write CSV to a file instead of stdout")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Printf("Articles: %d\n", stats.TotalArticles)
		fmt.Printf("Sources:  %d\n", stats.Sources)
		if stats.LastScrapedAt != "" {
			fmt.Printf("Last scrape: %s\n", stats.LastScrapedAt)
		}
		return nil
	},
}

// --- serve command ---

var servePort int

// scrapeRunner adapts the crawler to the server's scrape trigger.
type scrapeRunner struct {
	crawler *crawl.Crawler
	sources []string
}

func (s *scrapeRunner) Scrape(ctx context.Context) int {
	return s.crawler.Run(ctx, s.sources).Scraped
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}

		runner := &scrapeRunner{crawler: newCrawler(db), sources: cfg.Sources}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, runner, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}

// --- helpers ---

func newCrawler(db *database.DB) *crawl.Crawler {
	opts := crawl.Options{
		Keywords:     cfg.Keywords,
		MaxPages:     cfg.Crawl.MaxPages,
		MaxSentences: cfg.Crawl.MaxSentences,
		Delay:        time.Duration(cfg.Crawl.DelayMs) * time.Millisecond,
		Extractor:    cfg.Crawl.Extractor,
	}
	if maxPagesFlag > 0 {
		opts.MaxPages = maxPagesFlag
	}
	if maxSentencesFlag > 0 {
		opts.MaxSentences = maxSentencesFlag
	}

	fetcher := fetch.New(time.Duration(cfg.Crawl.TimeoutSeconds)*time.Second, cfg.Crawl.UserAgent)
	return crawl.New(db, fetcher, opts)
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "trendscan.db")
	return database.Open(dbPath)
}
