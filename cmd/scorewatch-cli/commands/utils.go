package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"scorewatch-backend/lib/scorestore"
	"scorewatch-backend/lib/scrapers/jwc"
	"scorewatch-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
)

type Config struct {
	Database struct {
		File string `json:"file"`
	} `json:"database"`
	Portal struct {
		BaseUrl string `json:"base_url"`
	} `json:"portal"`
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func readCredentials() (username, password string) {
	godotenv.Load()
	username = os.Getenv("SWJTU_USERNAME")
	password = os.Getenv("SWJTU_PASSWORD")
	if username == "" || password == "" {
		serviceutil.Fatal(
			"missing credentials",
			fmt.Errorf("SWJTU_USERNAME and SWJTU_PASSWORD must be set"),
		)
	}
	return username, password
}

func createClient(ctx context.Context, baseUrl string) *jwc.Client {
	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	client, err := jwc.NewClient(ctx, jwc.ClientOptions{BaseUrl: baseUrl})
	if err != nil {
		serviceutil.Fatal("failed to initialize portal client", err)
	}

	username, password := readCredentials()
	err = client.Login(ctx, username, password)
	if err != nil {
		serviceutil.Fatal("failed to login to the portal", err)
	}

	return client
}

func renderScores(scores []scorestore.Score) {
	t := newTable()
	t.AppendHeader(table.Row{
		"Year", "Sem", "Code", "Course", "Score", "Credits", "Normal", "Final",
	})
	for _, s := range scores {
		t.AppendRow(table.Row{
			s.AcademicYear, s.Semester, s.CourseCode, s.CourseName,
			s.Score, s.Credits, s.NormalScore, s.FinalScore,
		})
	}
	t.Render()
}
