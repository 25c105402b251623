package commands

import (
	"scorewatch-backend/lib/configutil"
	"scorewatch-backend/lib/serviceutil"
	"scorewatch-backend/services/scoresync"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes both score pages and prints the normalized records without touching the store.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		ctx := cmd.Context()
		client := createClient(ctx, cfg.Portal.BaseUrl)

		cumulative, err := client.FetchCumulativeScores(ctx)
		if err != nil {
			serviceutil.Fatal("failed to fetch cumulative scores", err)
		}

		err = scoresync.DefaultThrottle.Wait(ctx)
		if err != nil {
			serviceutil.Fatal("interrupted", err)
		}

		continuous, err := client.FetchContinuousScores(ctx)
		if err != nil {
			serviceutil.Fatal("failed to fetch continuous scores", err)
		}

		scores := scoresync.Normalize(ctx, cumulative, scoresync.ClassCumulative)
		scores = append(scores, scoresync.Normalize(ctx, continuous, scoresync.ClassContinuous)...)
		renderScores(scores)
	},
}
