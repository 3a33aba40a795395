package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Saggygee/ufc-data/config"
	"github.com/Saggygee/ufc-data/models"
	"github.com/Saggygee/ufc-data/pipeline"
	"github.com/Saggygee/ufc-data/scraper"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type cliFlags struct {
	testMode    *bool
	apiKey      *string
	configPath  *string
	output      *string
	format      *string
	delayMs     *int
	randomMs    *int
	timeoutMs   *int
	maxEvents   *int
	baseURL     *string
	listingsURL *string
	apiURL      *string
	userAgent   *string
	metricsAddr *string
	verbose     *bool
}

func main() {
	// A local .env provides ODDS_API_KEY during development; absence is fine.
	_ = godotenv.Load()

	defaults := config.DefaultConfig()
	flags := &cliFlags{
		testMode:    flag.Bool("test", false, "Test mode: only scrape the first events"),
		apiKey:      flag.String("api-key", "", "The Odds API key (enables the live API source)"),
		configPath:  flag.String("config", "", "Path to a YAML config file"),
		output:      flag.String("output", defaults.OutputFile, "Output file path"),
		format:      flag.String("format", defaults.OutputFormat, "Output format: csv, json, or dual"),
		delayMs:     flag.Int("delay", int(defaults.Delay/time.Millisecond), "Delay between event pages (milliseconds)"),
		randomMs:    flag.Int("random-delay", int(defaults.RandomDelay/time.Millisecond), "Random jitter added to delay (milliseconds)"),
		timeoutMs:   flag.Int("timeout", int(defaults.Timeout/time.Millisecond), "Request timeout (milliseconds)"),
		maxEvents:   flag.Int("max-events", defaults.MaxEvents, "Maximum events to collect per run"),
		baseURL:     flag.String("base-url", defaults.OddsPageURL, "Odds page URL to scan for events"),
		listingsURL: flag.String("listings-url", defaults.ListingsURL, "Backup event listings URL"),
		apiURL:      flag.String("api-url", defaults.OddsAPIURL, "The Odds API base URL"),
		userAgent:   flag.String("user-agent", defaults.UserAgent, "User agent for scraping requests"),
		metricsAddr: flag.String("metrics-addr", defaults.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)"),
		verbose:     flag.Bool("v", false, "Enable verbose logging"),
	}
	flag.Parse()

	logger, level := newLogger(*flags.verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := config.DefaultConfig()
	if *flags.configPath != "" {
		if err := config.LoadFile(*flags.configPath, cfg); err != nil {
			slog.Error("loading config file", slog.Any("error", err))
			os.Exit(1)
		}
	}
	applyEnv(cfg)
	applyFlags(cfg, flags)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting scrape",
		slog.String("odds_page", cfg.OddsPageURL),
		slog.Int("max_events", cfg.MaxEvents),
		slog.Bool("test_mode", cfg.TestMode),
		slog.Bool("api_source", cfg.APIKey != ""),
	)

	client := scraper.NewClient(cfg)

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current event")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && client.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(client.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	fmt.Println("Getting event URLs...")
	discoverer := scraper.NewDiscoverer(cfg, client, scraper.Samples{})
	events, discoveryOutcomes := discoverer.Discover(ctx)

	fmt.Println("Scraping odds...")
	live := scraper.NewOddsAPI(cfg, client.Metrics)
	pages := scraper.NewPageScraper(client, scraper.Samples{})
	agg := pipeline.NewAggregator(cfg, live, pages)
	result := agg.CollectAll(ctx, events)
	result.Sources = append(discoveryOutcomes, result.Sources...)

	fmt.Println("Writing data...")
	if err := writer.Write(result.Records); err != nil {
		slog.Error("writing output", slog.Any("error", err))
		os.Exit(1)
	}
	if err := writer.Validate(); err != nil {
		slog.Warn("output validation", slog.Any("error", err))
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, writer.Count(), cfg.OutputFile)
	fmt.Println("Done!")
}

// applyEnv overrides file and default values from the environment. Flags
// given explicitly still win.
func applyEnv(cfg *config.Config) {
	if value, ok := config.EnvString("ODDS_API_KEY"); ok {
		cfg.APIKey = value
	}
	if value, ok := config.EnvString("SCRAPER_OUTPUT"); ok {
		cfg.OutputFile = value
	}
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		cfg.MetricsAddr = value
	}
	if value, ok, err := config.EnvInt("SCRAPER_MAX_EVENTS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_MAX_EVENTS: %v\n", err)
		os.Exit(1)
	} else if ok {
		cfg.MaxEvents = value
	}
}

// applyFlags copies only the flags the user actually set, so config file
// and environment values survive unless overridden on the command line.
func applyFlags(cfg *config.Config, flags *cliFlags) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "test":
			cfg.TestMode = *flags.testMode
		case "api-key":
			cfg.APIKey = *flags.apiKey
		case "output":
			cfg.OutputFile = *flags.output
		case "format":
			cfg.OutputFormat = strings.ToLower(*flags.format)
		case "delay":
			cfg.Delay = time.Duration(*flags.delayMs) * time.Millisecond
		case "random-delay":
			cfg.RandomDelay = time.Duration(*flags.randomMs) * time.Millisecond
		case "timeout":
			cfg.Timeout = time.Duration(*flags.timeoutMs) * time.Millisecond
		case "max-events":
			cfg.MaxEvents = *flags.maxEvents
		case "base-url":
			cfg.OddsPageURL = *flags.baseURL
		case "listings-url":
			cfg.ListingsURL = *flags.listingsURL
		case "api-url":
			cfg.OddsAPIURL = *flags.apiURL
		case "user-agent":
			cfg.UserAgent = *flags.userAgent
		case "metrics-addr":
			cfg.MetricsAddr = *flags.metricsAddr
		case "v":
			cfg.Verbose = *flags.verbose
		}
	})
}

func createWriter(format, filename string) (pipeline.OutputWriter, error) {
	switch format {
	case "json":
		return pipeline.NewJSONWriter(filename)
	case "csv":
		return pipeline.NewCSVWriter(filename)
	case "dual":
		jsonFilename := strings.TrimSuffix(filename, ".csv") + ".json"
		return pipeline.NewDualWriter(filename, jsonFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printSummary(result *models.ScrapeResult, written int, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")

	fmt.Printf("  Run ID:        %s\n", result.RunID)
	fmt.Printf("  Records:       %d\n", len(result.Records))
	fmt.Printf("  Rows written:  %d\n", written)

	counts := result.OutcomeCounts()
	fmt.Printf("  Sources:       %d data, %d empty, %d failed\n",
		counts[models.SourceData], counts[models.SourceEmpty], counts[models.SourceFailed])
	for _, outcome := range result.Sources {
		if outcome.Status == models.SourceFailed {
			fmt.Printf("    failed: %s (%s)\n", outcome.Source, outcome.Err)
		}
	}
	if len(result.Problems) > 0 {
		fmt.Printf("  Problems:      %v\n", result.Problems)
	}
	fmt.Printf("  Duration:      %v\n", result.Duration())
	fmt.Printf("  Output file:   %s\n", outputFile)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
