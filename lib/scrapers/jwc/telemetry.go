package jwc

import (
	"scorewatch-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("scorewatch.lib.scrapers.jwc")

func instrumentResty(client *resty.Client) {
	telemetry.InstrumentResty(client, "scorewatch.lib.scrapers.jwc.http")
}
