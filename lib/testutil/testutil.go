package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"scorewatch-backend/lib/telemetry"

	_ "modernc.org/sqlite"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
}

type ServiceResult struct {
	DB *sql.DB
}

func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(fmt.Sprintf("test:%s", params.Name))

	sqlite, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if params.DbSchema != "" {
		_, err = sqlite.Exec(params.DbSchema)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			t.Fatal(err)
		}
	}

	return ServiceResult{
		DB: sqlite,
	}, cleanup
}
