package main

import (
	"context"
	"net/http"

	"scorewatch-backend/lib/configutil"
	"scorewatch-backend/lib/notify"
	"scorewatch-backend/lib/scorestore"
	scorestoredb "scorewatch-backend/lib/scorestore/db"
	"scorewatch-backend/lib/serviceutil"
	"scorewatch-backend/lib/sqliteutil"
	"scorewatch-backend/lib/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(false)

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	// .env is optional, the environment may already carry the secrets
	godotenv.Load()
	secrets, err := readSecrets()
	if err != nil {
		serviceutil.Fatal("failed to read secrets", err)
	}

	db, err := sqliteutil.OpenDB(scorestoredb.Schema, config.Database.File)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}

	err = telemetry.SetupFromEnv(ctx, "scoresyncd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())
	telemetry.InstrumentPerfStats(ctx)

	handler := &triggerHandler{
		config:  config,
		secrets: secrets,
		store:   scorestore.NewStore(db),
		notify:  notify.NewMailer(config.Smtp),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.status)
	mux.HandleFunc("/api/fetch-scores", handler.fetchScores)

	port := config.Trigger.Port
	if port == 0 {
		port = 8444
	}
	go serviceutil.StartHttpServer(port, mux)

	<-ctx.Done()
}
