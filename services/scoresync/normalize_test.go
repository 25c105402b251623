package scoresync

import (
	"context"
	"testing"

	"scorewatch-backend/lib/scorestore"
	"scorewatch-backend/lib/scrapers/jwc"

	"github.com/stretchr/testify/require"
)

func rawRecord(fields map[string]string) jwc.RawRecord {
	return jwc.RawRecord{Fields: fields}
}

func TestNormalize(t *testing.T) {
	ctx := context.Background()

	records := []jwc.RawRecord{
		rawRecord(map[string]string{
			"学年": "2024-2025", "学期": "1", "代码": "MATH1101",
			"课程名称": "高等数学", "成绩": "92", "学分": "5.0",
			"性质": "必修", "教师": "张伟", "期末": "94", "平时": "88",
			"类型": "考试",
		}),
		// missing course code, cannot be keyed
		rawRecord(map[string]string{
			"学年": "2024-2025", "学期": "1", "课程名称": "形势与政策",
		}),
		// bad credits
		rawRecord(map[string]string{
			"学年": "2024-2025", "学期": "1", "代码": "PHYS1201",
			"课程名称": "大学物理", "学分": "三点五",
		}),
		// sparse row, non-key fields default to empty
		rawRecord(map[string]string{
			"学年": "2024-2025", "学期": "1", "代码": "PE1001",
		}),
	}

	scores := Normalize(ctx, records, ClassCumulative)
	require.Len(t, scores, 2)

	require.Equal(t, scorestore.Score{
		Key:          scorestore.Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "MATH1101"},
		CourseName:   "高等数学",
		Score:        "92",
		Credits:      5.0,
		CourseNature: "必修",
		Teacher:      "张伟",
		FinalScore:   "94",
		NormalScore:  "88",
		ExamType:     "考试",
	}, scores[0])

	require.Equal(t, "PE1001", scores[1].CourseCode)
	require.Equal(t, "", scores[1].CourseName)
	require.Equal(t, 0.0, scores[1].Credits)
}

func TestNormalizeCreditsRounding(t *testing.T) {
	credits, ok := parseCredits("3.49999")
	require.True(t, ok)
	require.Equal(t, 3.5, credits)

	_, ok = parseCredits("n/a")
	require.False(t, ok)

	credits, ok = parseCredits("")
	require.True(t, ok)
	require.Equal(t, 0.0, credits)
}

func TestNormalizeDetails(t *testing.T) {
	ctx := context.Background()

	record := jwc.RawRecord{
		Fields: map[string]string{
			"学年": "2024-2025", "学期": "1", "代码": "MATH1101", "平时": "88",
		},
		Details: []map[string]string{
			{"项目": "平时测验", "比例": "30%", "成绩": "85"},
			{"项目": "考勤", "比例": "10%", "成绩": "100"},
		},
	}

	// breakdown is only meaningful for the continuous class
	continuous := Normalize(ctx, []jwc.RawRecord{record}, ClassContinuous)
	require.Len(t, continuous, 1)
	require.Equal(t, []scorestore.Detail{
		{Item: "平时测验", Percentage: "30%", Score: "85"},
		{Item: "考勤", Percentage: "10%", Score: "100"},
	}, continuous[0].Details)

	cumulative := Normalize(ctx, []jwc.RawRecord{record}, ClassCumulative)
	require.Len(t, cumulative, 1)
	require.Nil(t, cumulative[0].Details)
}
