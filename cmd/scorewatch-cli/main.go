package main

import (
	"context"

	"scorewatch-backend/cmd/scorewatch-cli/commands"
	"scorewatch-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	telemetry.SetupFromEnv(context.Background(), "scorewatch-cli")
	commands.ExecuteContext(context.Background())
}
