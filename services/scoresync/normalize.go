package scoresync

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"scorewatch-backend/lib/scorestore"
	"scorewatch-backend/lib/scrapers/jwc"
)

type RecordClass int

const (
	ClassCumulative RecordClass = iota
	ClassContinuous
)

func (c RecordClass) String() string {
	switch c {
	case ClassCumulative:
		return "cumulative"
	case ClassContinuous:
		return "continuous"
	}
	return "unknown"
}

// portal column headers, see the scores table the educational
// administration system renders
const (
	fieldAcademicYear = "学年"
	fieldSemester     = "学期"
	fieldCourseCode   = "代码"
	fieldCourseName   = "课程名称"
	fieldScore        = "成绩"
	fieldCredits      = "学分"
	fieldNature       = "性质"
	fieldTeacher      = "教师"
	fieldFinal        = "期末"
	fieldNormal       = "平时"
	fieldExamType     = "类型"
	fieldRemarks      = "备注"

	detailItem       = "项目"
	detailPercentage = "比例"
	detailScore      = "成绩"
)

// Normalize maps scraped rows onto the canonical score schema.
// a row missing any composite key field cannot be reconciled and is
// dropped, as is a row with unparsable credits. missing non-key
// fields become empty, never a failure.
func Normalize(ctx context.Context, records []jwc.RawRecord, class RecordClass) []scorestore.Score {
	out := make([]scorestore.Score, 0, len(records))
	for _, record := range records {
		key := scorestore.Key{
			AcademicYear: record.Fields[fieldAcademicYear],
			Semester:     record.Fields[fieldSemester],
			CourseCode:   record.Fields[fieldCourseCode],
		}
		if key.AcademicYear == "" || key.Semester == "" || key.CourseCode == "" {
			slog.WarnContext(
				ctx, "dropping record with incomplete key",
				"class", class.String(),
				"course", record.Fields[fieldCourseName],
			)
			continue
		}

		credits, ok := parseCredits(record.Fields[fieldCredits])
		if !ok {
			slog.WarnContext(
				ctx, "dropping record with unparsable credits",
				"class", class.String(),
				"course_code", key.CourseCode,
				"credits", record.Fields[fieldCredits],
			)
			continue
		}

		score := scorestore.Score{
			Key:          key,
			CourseName:   record.Fields[fieldCourseName],
			Score:        record.Fields[fieldScore],
			Credits:      credits,
			CourseNature: record.Fields[fieldNature],
			Teacher:      record.Fields[fieldTeacher],
			FinalScore:   record.Fields[fieldFinal],
			NormalScore:  record.Fields[fieldNormal],
			ExamType:     record.Fields[fieldExamType],
			Remarks:      record.Fields[fieldRemarks],
		}
		if class == ClassContinuous {
			score.Details = normalizeDetails(record.Details)
		}
		out = append(out, score)
	}
	return out
}

// credits carry one fractional digit on the portal ("3.5"), an
// absent value normalizes to zero
func parseCredits(raw string) (float64, bool) {
	if raw == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return math.Round(f*10) / 10, true
}

func normalizeDetails(rows []map[string]string) []scorestore.Detail {
	if len(rows) == 0 {
		return nil
	}
	out := make([]scorestore.Detail, len(rows))
	for i, row := range rows {
		out[i] = scorestore.Detail{
			Item:       row[detailItem],
			Percentage: row[detailPercentage],
			Score:      row[detailScore],
		}
	}
	return out
}
