package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brfin/newswire/internal/search"
	"github.com/brfin/newswire/pkg/httpclient"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <sitemap-url>",
	Short: "List candidate article URLs from a news site's sitemap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := search.NewSitemapDiscoverer(httpclient.New(httpclient.Config{}), nil)

		urls, err := d.Discover(context.Background(), args[0])
		if err != nil {
			return err
		}

		for _, u := range urls {
			fmt.Println(u)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
