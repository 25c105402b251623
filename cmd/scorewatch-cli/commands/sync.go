package commands

import (
	"log/slog"

	"scorewatch-backend/lib/configutil"
	"scorewatch-backend/lib/scorestore"
	scorestoredb "scorewatch-backend/lib/scorestore/db"
	"scorewatch-backend/lib/scrapers/jwc"
	"scorewatch-backend/lib/serviceutil"
	"scorewatch-backend/lib/sqliteutil"
	"scorewatch-backend/services/scoresync"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Runs one full sync against the configured store, without sending notifications.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		ctx := cmd.Context()

		db, err := sqliteutil.OpenDB(scorestoredb.Schema, cfg.Database.File)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer db.Close()

		client, err := jwc.NewClient(ctx, jwc.ClientOptions{BaseUrl: cfg.Portal.BaseUrl})
		if err != nil {
			serviceutil.Fatal("failed to initialize portal client", err)
		}

		username, password := readCredentials()
		service := scoresync.NewService(
			client,
			scorestore.NewStore(db),
			nil,
			scoresync.Options{
				Credentials: scoresync.Credentials{
					Username: username,
					Password: password,
				},
			},
		)

		outcome, err := service.Sync(ctx)
		if err != nil {
			serviceutil.Fatal("sync run failed", err)
		}

		slog.Info(
			"sync complete",
			"inserted", outcome.Result.Inserted,
			"updated", outcome.Result.Updated,
			"note", outcome.Note,
		)
	},
}
