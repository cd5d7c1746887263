package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brfin/newswire/internal/extract"
	"github.com/brfin/newswire/internal/fetch"
	"github.com/brfin/newswire/internal/fingerprint"
	"github.com/brfin/newswire/internal/metrics"
	"github.com/brfin/newswire/internal/pipeline"
	"github.com/brfin/newswire/internal/report"
	"github.com/brfin/newswire/internal/search"
	"github.com/brfin/newswire/internal/storage"
	"github.com/brfin/newswire/internal/storage/jsonbackend"
	"github.com/brfin/newswire/internal/storage/postgres"
	"github.com/brfin/newswire/internal/storage/sqlite"
	"github.com/brfin/newswire/pkg/httpclient"
)

var runCmd = &cobra.Command{
	Use:   "run [term...]",
	Short: "Run the acquisition pipeline for the given query terms",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPipeline,
}

func init() {
	f := runCmd.Flags()
	f.String("backend", "json", "storage backend: json, sqlite or postgres")
	f.String("articles-out", "data/articles.json", "articles artifact path (json backend)")
	f.String("pages-out", "data/news.json", "raw search page archive path (json backend)")
	f.String("dsn", "", "database DSN (sqlite or postgres backend)")
	f.String("fingerprint", "chrome", "TLS fingerprint profile: chrome, firefox, safari, random or go")
	f.Bool("respect-robots", false, "check robots.txt before fetching article pages")
	f.Int("metrics-port", 0, "expose Prometheus metrics on this port (0 = disabled)")
	f.String("report", "text", "run summary format: text or json")
	_ = viper.BindPFlags(f)

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, terms []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiKey := viper.GetString("api-key")
	engineID := viper.GetString("engine-id")
	if apiKey == "" || engineID == "" {
		return fmt.Errorf("search credentials missing: set NEWSWIRE_API_KEY and NEWSWIRE_ENGINE_ID")
	}

	backend, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	if port := viper.GetInt("metrics-port"); port > 0 {
		srv := metrics.Start(port)
		defer func() { _ = srv.Stop(context.Background()) }()
	}

	searchClient, err := search.NewClient(search.Config{
		Endpoint: viper.GetString("endpoint"),
		APIKey:   apiKey,
		EngineID: engineID,
	}, httpclient.New(httpclient.Config{}), nil)
	if err != nil {
		return err
	}

	fetcher, err := fetch.NewFetcher(fetch.Config{
		Timeout:       viper.GetDuration("timeout"),
		Fingerprint:   fingerprint.Profile(viper.GetString("fingerprint")),
		RespectRobots: viper.GetBool("respect-robots"),
	}, nil)
	if err != nil {
		return err
	}

	p, err := pipeline.New(searchClient, fetcher, extract.NewExtractor(nil), backend, nil)
	if err != nil {
		return err
	}

	summary, err := p.Run(ctx, terms)
	if err != nil {
		return err
	}

	if viper.GetString("report") == "json" {
		return report.WriteJSON(os.Stdout, summary)
	}
	return report.WriteText(os.Stdout, summary)
}

func openBackend(ctx context.Context) (storage.Backend, error) {
	switch name := viper.GetString("backend"); name {
	case "json":
		return jsonbackend.New(viper.GetString("articles-out"), viper.GetString("pages-out")), nil
	case "sqlite":
		dsn := viper.GetString("dsn")
		if dsn == "" {
			dsn = "newswire.db"
		}
		return sqlite.New(dsn)
	case "postgres":
		dsn := viper.GetString("dsn")
		if dsn == "" {
			return nil, fmt.Errorf("postgres backend requires --dsn")
		}
		return postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}
