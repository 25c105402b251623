package scoresync

import (
	"fmt"
	"html/template"
	"strings"
)

// Plan is a rendered notification for the sink. a nil plan means
// the steady state: nothing changed, nothing to say.
type Plan struct {
	Subject string
	Body    string
}

// Decide fires only when the run actually inserted or updated
// something.
func Decide(result Result) *Plan {
	if result.Inserted+result.Updated == 0 {
		return nil
	}

	return &Plan{
		Subject: fmt.Sprintf("成绩更新通知 (%d 新增 / %d 变更)", result.Inserted, result.Updated),
		Body:    renderChanges(result.Changes),
	}
}

var changesTemplate = template.Must(template.New("changes").Parse(`<h2>最新成绩通知</h2>
<p>检测到您的成绩有更新，详情如下：</p>
<table style="border-collapse: collapse; width: 100%; font-family: Arial, sans-serif;">
	<thead>
		<tr style="background-color: #f2f2f2;">
			<th style="border: 1px solid #dddddd; text-align: left; padding: 8px;">课程名称</th>
			<th style="border: 1px solid #dddddd; text-align: left; padding: 8px;">成绩</th>
		</tr>
	</thead>
	<tbody>
		{{- range . }}
		<tr>
			<td style="border: 1px solid #dddddd; text-align: left; padding: 8px;">{{ .Course }}</td>
			<td style="border: 1px solid #dddddd; text-align: left; padding: 8px; color: red;">{{ .Score }}</td>
		</tr>
		{{- end }}
	</tbody>
</table>
<p>请登录教务系统查看完整信息。</p>`))

type changeRow struct {
	Course string
	Score  string
}

func renderChanges(changes []Change) string {
	rows := make([]changeRow, len(changes))
	for i, change := range changes {
		rows[i] = changeRow{
			Course: change.New.CourseName,
			Score:  displayScore(change),
		}
	}

	var out strings.Builder
	err := changesTemplate.Execute(&out, rows)
	if err != nil {
		// the template is static and the row type is fixed, an
		// execution failure is a programming error
		panic(err)
	}
	return out.String()
}

func displayScore(change Change) string {
	score := change.New.Score
	if score == "" {
		score = change.New.NormalScore
	}
	if change.Old == nil {
		return score
	}

	old := change.Old.Score
	if old == "" {
		old = change.Old.NormalScore
	}
	if old == "" || old == score {
		return score
	}
	return fmt.Sprintf("%s → %s", old, score)
}
