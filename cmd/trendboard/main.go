package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/TobiSchelling/trendboard/internal/config"
	"github.com/TobiSchelling/trendboard/internal/logging"
	"github.com/TobiSchelling/trendboard/internal/navigator"
	"github.com/TobiSchelling/trendboard/internal/news"
	"github.com/TobiSchelling/trendboard/internal/output"
	"github.com/TobiSchelling/trendboard/internal/server"
	"github.com/TobiSchelling/trendboard/internal/treemap"
	"github.com/TobiSchelling/trendboard/internal/tui"
)

var version = "dev"

var (
	verbose    bool
	noColor    bool
	configPath string
	cfg        *config.Config
	logCloser  io.Closer
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "trendboard",
	Short:   "Browse daily news topic reports",
	Long:    "trendboard renders daily trending-topic reports as a drill-down dashboard: topics, related articles and their AI summaries.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		if err := config.LoadDotEnv(".env", filepath.Join(config.ConfigDir(), ".env")); err != nil {
			return err
		}
		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s:\n%w", path, err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		opts := logging.Options{Level: level, File: cfg.Logging.File}
		if cmd.Name() == "browse" {
			// The terminal belongs to the TUI.
			opts.Console = io.Discard
		}
		logCloser, err = logging.Setup(opts)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(browseCmd)
}

func printer() *output.Printer {
	return output.NewPrinter(!noColor)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("trendboard", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/trendboard/",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := printer()
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			p.Print("Config already exists: %s", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		p.Success("Created config: %s", target)
		p.Print("Set store.url and store.anon_key (or %s and %s) to connect.", config.EnvURL, config.EnvAnonKey)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend and report status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		p := printer()
		p.Print("Backend: %s", cfg.Store.Backend)

		latest, err := st.LatestReportDate(ctx)
		switch {
		case errors.Is(err, news.ErrNotFound):
			p.Print("Latest report: none")
		case err != nil:
			return fmt.Errorf("reading latest report: %w", err)
		default:
			reports, err := st.ReportsForDate(ctx, latest)
			if err != nil {
				return fmt.Errorf("reading reports: %w", err)
			}
			p.Print("Latest report: %s (%d categories)", news.FormatDateDisplay(latest), len(reports))
		}

		if st.db != nil {
			stats, err := st.db.GetStats(ctx)
			if err != nil {
				return fmt.Errorf("getting stats: %w", err)
			}
			p.Print("")
			p.Print("Mirror:")
			p.Print("  Reports: %d over %d dates", stats.Reports, stats.Dates)
			p.Print("  Articles: %d", stats.Articles)
			p.Print("  Analyses: %d", stats.Analyses)
			p.Print("  Entities: %d", stats.Entities)
		}
		return nil
	},
}

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		p := printer()
		p.Info("Starting server at http://localhost:%d", port)
		p.Print("Press Ctrl+C to stop")
		return server.Serve(ctx, st, server.Options{
			Treemap: treemap.Options{
				Width:   cfg.Dashboard.TreemapWidth,
				Height:  cfg.Dashboard.TreemapHeight,
				Padding: cfg.Dashboard.TreemapPadding,
			},
			ArticleLimit:    cfg.Dashboard.ArticleLimit,
			SearchLimit:     cfg.Dashboard.SearchLimit,
			FeedDays:        cfg.Dashboard.FeedDays,
			SessionCapacity: cfg.Server.SessionCapacity,
			Backend:         cfg.Store.Backend,
		}, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

var (
	reportDate     string
	reportCategory string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the reports of a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		return printReports(ctx, st, printer(), reportDate, reportCategory)
	},
}

// printReports prints the reports of date, or of the latest date when empty,
// optionally limited to one category.
func printReports(ctx context.Context, st news.Store, p *output.Printer, date, category string) error {
	if date == "" {
		latest, err := st.LatestReportDate(ctx)
		if errors.Is(err, news.ErrNotFound) {
			p.Print("No reports found.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load report: %w", err)
		}
		date = latest
	}

	reports, err := st.ReportsForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if len(reports) == 0 {
		p.Print("No reports found for %s.", news.FormatDateDisplay(date))
		return nil
	}

	printed := 0
	for _, rep := range reports {
		if category != "" && !strings.EqualFold(rep.Category, category) {
			continue
		}
		if err := p.Report(rep); err != nil {
			return err
		}
		printed++
	}
	if printed == 0 {
		p.Print("No %s report for %s.", category, news.FormatDateDisplay(date))
	}
	return nil
}

func init() {
	reportCmd.Flags().StringVarP(&reportDate, "date", "d", "", "Report date (YYYY-MM-DD, default latest)")
	reportCmd.Flags().StringVarP(&reportCategory, "category", "k", "", "Only this category")
}

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search AI summaries",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term, err := news.NormalizeSearchTerm(strings.Join(args, " "))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		limit := cfg.Dashboard.SearchLimit
		if cmd.Flags().Changed("limit") {
			limit = searchLimit
		}
		results, err := st.SearchSummaries(ctx, term, limit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return printer().SearchResults(results)
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results")
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse reports in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		nav := navigator.New(st, navigator.Options{ArticleLimit: cfg.Dashboard.ArticleLimit})
		prog := tea.NewProgram(tui.New(ctx, nav), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err = prog.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	},
}

