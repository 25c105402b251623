package commands

import (
	"scorewatch-backend/lib/configutil"
	"scorewatch-backend/lib/scorestore"
	scorestoredb "scorewatch-backend/lib/scorestore/db"
	"scorewatch-backend/lib/serviceutil"
	"scorewatch-backend/lib/sqliteutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scoresCmd)
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Lists the score records currently in the store.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		db, err := sqliteutil.OpenDB(scorestoredb.Schema, cfg.Database.File)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer db.Close()

		scores, err := scorestore.NewStore(db).List(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list scores", err)
		}
		renderScores(scores)
	},
}
