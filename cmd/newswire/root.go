package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultEndpoint = "https://customsearch.googleapis.com/customsearch/v1"

var rootCmd = &cobra.Command{
	Use:   "newswire",
	Short: "Market news acquisition pipeline",
	Long: `newswire discovers news article URLs through a Custom Search engine,
downloads the pages concurrently, extracts the article text per site, and
writes the collected articles to a configurable sink.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("endpoint", defaultEndpoint, "search API base URL")
	pf.String("api-key", "", "search API key (env NEWSWIRE_API_KEY)")
	pf.String("engine-id", "", "custom search engine id (env NEWSWIRE_ENGINE_ID)")
	pf.Duration("timeout", 0, "per-request timeout for page fetches (default 10s)")
	pf.Bool("verbose", false, "enable debug logging")

	viper.SetEnvPrefix("NEWSWIRE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Credentials as set by the original data-science environment.
	_ = viper.BindEnv("api-key", "NEWSWIRE_API_KEY", "API_CUSTOM_SEARCH")
	_ = viper.BindEnv("engine-id", "NEWSWIRE_ENGINE_ID", "CUSTOM_SEARCH_ID")

	_ = viper.BindPFlags(pf)
}
