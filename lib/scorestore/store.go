package scorestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"scorewatch-backend/lib/timezone"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Key is the composite primary key of a score record. it is never
// mutated after the record is created.
type Key struct {
	AcademicYear string
	Semester     string
	CourseCode   string
}

// Detail is one sub-assessment entry of a continuous score
// breakdown (quiz, attendance, midterm, ...).
type Detail struct {
	Item       string `json:"item"`
	Percentage string `json:"percentage"`
	Score      string `json:"score"`
}

// Score is the canonical course-score record. string fields use ""
// for absent values, Details uses nil.
type Score struct {
	Key
	CourseName    string
	Score         string
	Credits       float64
	CourseNature  string
	Teacher       string
	FinalScore    string
	NormalScore   string
	ExamType      string
	Remarks       string
	Details       []Detail
	LastUpdatedAt time.Time
}

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

const getQuery = `
SELECT course_name, score, credits, course_nature, teacher,
       final_score, normal_score, exam_type, remarks,
       normal_scores_details, last_updated_at
FROM scores
WHERE academic_year = ? AND semester = ? AND course_code = ?
`

func (s Store) Get(ctx context.Context, key Key) (Score, bool, error) {
	row := s.db.QueryRowContext(
		ctx, getQuery,
		key.AcademicYear, key.Semester, key.CourseCode,
	)

	out := Score{Key: key}
	var details sql.NullString
	var updatedAt int64
	err := row.Scan(
		&out.CourseName, &out.Score, &out.Credits, &out.CourseNature,
		&out.Teacher, &out.FinalScore, &out.NormalScore, &out.ExamType,
		&out.Remarks, &details, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return Score{}, false, nil
	}
	if err != nil {
		return Score{}, false, err
	}

	if details.Valid && details.String != "" {
		err = json.Unmarshal([]byte(details.String), &out.Details)
		if err != nil {
			return Score{}, false, err
		}
	}
	out.LastUpdatedAt = time.Unix(updatedAt, 0).In(timezone.Location)

	return out, true, nil
}

const putQuery = `
INSERT INTO scores (
    academic_year, semester, course_code, course_name, score, credits,
    course_nature, teacher, final_score, normal_score, exam_type, remarks,
    normal_scores_details, last_updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (academic_year, semester, course_code) DO UPDATE SET
    course_name = excluded.course_name,
    score = excluded.score,
    credits = excluded.credits,
    course_nature = excluded.course_nature,
    teacher = excluded.teacher,
    final_score = excluded.final_score,
    normal_score = excluded.normal_score,
    exam_type = excluded.exam_type,
    remarks = excluded.remarks,
    normal_scores_details = excluded.normal_scores_details,
    last_updated_at = excluded.last_updated_at
`

// Put inserts the record or fully overwrites its non-key columns,
// refreshing last_updated_at. the upsert is a single statement so
// readers never observe a partially written record.
func (s Store) Put(ctx context.Context, score Score) error {
	var details sql.NullString
	if score.Details != nil {
		raw, err := json.Marshal(score.Details)
		if err != nil {
			return err
		}
		details = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx, putQuery,
		score.AcademicYear, score.Semester, score.CourseCode,
		score.CourseName, score.Score, score.Credits, score.CourseNature,
		score.Teacher, score.FinalScore, score.NormalScore, score.ExamType,
		score.Remarks, details, timezone.Now().Unix(),
	)
	return err
}

const listQuery = `
SELECT academic_year, semester, course_code, course_name, score, credits,
       course_nature, teacher, final_score, normal_score, exam_type, remarks,
       normal_scores_details, last_updated_at
FROM scores
ORDER BY academic_year, semester, course_code
`

func (s Store) List(ctx context.Context) ([]Score, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var score Score
		var details sql.NullString
		var updatedAt int64
		err := rows.Scan(
			&score.AcademicYear, &score.Semester, &score.CourseCode,
			&score.CourseName, &score.Score, &score.Credits, &score.CourseNature,
			&score.Teacher, &score.FinalScore, &score.NormalScore, &score.ExamType,
			&score.Remarks, &details, &updatedAt,
		)
		if err != nil {
			return nil, err
		}
		if details.Valid && details.String != "" {
			err = json.Unmarshal([]byte(details.String), &score.Details)
			if err != nil {
				return nil, err
			}
		}
		score.LastUpdatedAt = time.Unix(updatedAt, 0).In(timezone.Location)
		out = append(out, score)
	}
	return out, rows.Err()
}
