package jwc

import (
	"bytes"
	"context"
	"fmt"
	"scorewatch-backend/lib/htmlutil"
	"scorewatch-backend/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// RawRecord is one scraped course row, keyed by the portal's own
// column headers (学年, 学期, 代码, ...). Details carries the
// sub-assessment breakdown rows on the continuous score page.
type RawRecord struct {
	Fields  map[string]string
	Details []map[string]string
}

// FetchCumulativeScores pulls the full transcript table.
// zero rows is not an error, the portal renders an empty table
// for students with no recorded scores yet.
func (c *Client) FetchCumulativeScores(ctx context.Context) ([]RawRecord, error) {
	ctx, span := tracer.Start(ctx, "client:FetchCumulativeScores")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/vatuu/StudentScoreInfoAction.action?setAction=studentScoreList")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch cumulative score page")
		return nil, err
	}

	records, err := parseScorePage(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse cumulative score page")
		return nil, err
	}
	return records, nil
}

// FetchContinuousScores pulls the in-progress (平时成绩) table,
// including each course's nested breakdown table.
func (c *Client) FetchContinuousScores(ctx context.Context) ([]RawRecord, error) {
	ctx, span := tracer.Start(ctx, "client:FetchContinuousScores")
	defer span.End()

	// the continuous page is scoped to a term, the portal only keeps
	// breakdowns for courses still in progress
	year := timezone.GetAcademicYear(timezone.Now())

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"setAction":    "normalScoreList",
			"academicYear": year.String(),
		}).
		Get("/vatuu/StudentScoreInfoAction.action")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch continuous score page")
		return nil, err
	}

	records, err := parseScorePage(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse continuous score page")
		return nil, err
	}
	return records, nil
}

// parseScorePage walks the score table. course rows map header text
// to cell text; a row holding a nested table is a breakdown of the
// course row above it and attaches to that record instead.
func parseScorePage(body []byte) ([]RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.score-table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("could not find score table")
	}

	// descendant search would also pick up the rows of nested
	// breakdown tables, keep only rows belonging to the score table
	rows := table.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").Get(0) == table.Get(0)
	})

	var headers []string
	rows.First().Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.CleanText(th.Text()))
	})
	if len(headers) == 0 {
		return nil, fmt.Errorf("could not find score table headers")
	}

	var records []RawRecord
	rows.Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}

		nested := tr.Find("table")
		if nested.Length() > 0 {
			if len(records) == 0 {
				return
			}
			records[len(records)-1].Details = parseDetailTable(nested.First())
			return
		}

		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		fields := map[string]string{}
		cells.Each(func(j int, td *goquery.Selection) {
			if j >= len(headers) {
				return
			}
			fields[headers[j]] = htmlutil.CleanText(td.Text())
		})
		records = append(records, RawRecord{Fields: fields})
	})

	return records, nil
}

func parseDetailTable(table *goquery.Selection) []map[string]string {
	var headers []string
	table.Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, htmlutil.CleanText(th.Text()))
	})
	if len(headers) == 0 {
		return nil
	}

	var details []map[string]string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		row := map[string]string{}
		cells.Each(func(j int, td *goquery.Selection) {
			if j >= len(headers) {
				return
			}
			row[headers[j]] = htmlutil.CleanText(td.Text())
		})
		details = append(details, row)
	})
	return details
}
