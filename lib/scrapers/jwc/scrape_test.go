package jwc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const cumulativePage = `
<html><body>
<div id="contentBox">
<table class="score-table" border="1">
	<tr>
		<th>学年</th><th>学期</th><th>代码</th><th>课程名称</th>
		<th>成绩</th><th>学分</th><th>性质</th><th>教师</th>
	</tr>
	<tr>
		<td>2024-2025</td><td>1</td><td>MATH1101</td><td> 高等数学 </td>
		<td>92</td><td>5.0</td><td>必修</td><td>张伟</td>
	</tr>
	<tr>
		<td>2024-2025</td><td>1</td><td>PHYS1201</td><td>大学物理</td>
		<td>优秀</td><td>3.5</td><td>必修</td><td>李娜</td>
	</tr>
</table>
</div>
</body></html>`

const continuousPage = `
<html><body>
<table class="score-table">
	<tr>
		<th>学年</th><th>学期</th><th>代码</th><th>课程名称</th><th>平时</th>
	</tr>
	<tr>
		<td>2024-2025</td><td>1</td><td>MATH1101</td><td>高等数学</td><td>88</td>
	</tr>
	<tr>
		<td colspan="5">
			<table>
				<tr><th>项目</th><th>比例</th><th>成绩</th></tr>
				<tr><td>平时测验</td><td>30%</td><td>85</td></tr>
				<tr><td>考勤</td><td>10%</td><td>100</td></tr>
				<tr><td>期中考试</td><td>60%</td><td>87</td></tr>
			</table>
		</td>
	</tr>
	<tr>
		<td>2024-2025</td><td>1</td><td>PHYS1201</td><td>大学物理</td><td>91</td>
	</tr>
</table>
</body></html>`

const emptyPage = `
<html><body>
<table class="score-table">
	<tr><th>学年</th><th>学期</th><th>代码</th><th>课程名称</th><th>成绩</th></tr>
</table>
</body></html>`

func TestParseCumulativePage(t *testing.T) {
	records, err := parseScorePage([]byte(cumulativePage))
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "MATH1101", records[0].Fields["代码"])
	require.Equal(t, "高等数学", records[0].Fields["课程名称"])
	require.Equal(t, "92", records[0].Fields["成绩"])
	require.Equal(t, "5.0", records[0].Fields["学分"])
	require.Nil(t, records[0].Details)

	require.Equal(t, "PHYS1201", records[1].Fields["代码"])
	require.Equal(t, "优秀", records[1].Fields["成绩"])
}

func TestParseContinuousPage(t *testing.T) {
	records, err := parseScorePage([]byte(continuousPage))
	require.NoError(t, err)
	require.Len(t, records, 2)

	expected := []RawRecord{
		{
			Fields: map[string]string{
				"学年": "2024-2025", "学期": "1", "代码": "MATH1101",
				"课程名称": "高等数学", "平时": "88",
			},
			Details: []map[string]string{
				{"项目": "平时测验", "比例": "30%", "成绩": "85"},
				{"项目": "考勤", "比例": "10%", "成绩": "100"},
				{"项目": "期中考试", "比例": "60%", "成绩": "87"},
			},
		},
		{
			Fields: map[string]string{
				"学年": "2024-2025", "学期": "1", "代码": "PHYS1201",
				"课程名称": "大学物理", "平时": "91",
			},
		},
	}
	diff := cmp.Diff(expected, records)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestParseEmptyPage(t *testing.T) {
	records, err := parseScorePage([]byte(emptyPage))
	require.NoError(t, err)
	require.Len(t, records, 0)
}

func TestParseMissingTable(t *testing.T) {
	_, err := parseScorePage([]byte("<html><body><p>会话已过期</p></body></html>"))
	require.Error(t, err)
}
