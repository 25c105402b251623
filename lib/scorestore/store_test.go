package scorestore

import (
	"context"
	"testing"
	"time"

	"scorewatch-backend/lib/scorestore/db"
	"scorewatch-backend/lib/testutil"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestStore(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/scorestore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	key := Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "MATH1101"}

	{
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.False(t, ok)
	}
	{
		err := store.Put(ctx, Score{
			Key:         key,
			CourseName:  "高等数学",
			Score:       "92",
			Credits:     5.0,
			Teacher:     "张伟",
			NormalScore: "88",
			Details: []Detail{
				{Item: "平时测验", Percentage: "30%", Score: "85"},
				{Item: "考勤", Percentage: "10%", Score: "100"},
			},
		})
		require.NoError(t, err)

		got, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "高等数学", got.CourseName)
		require.Equal(t, "92", got.Score)
		require.Equal(t, 5.0, got.Credits)
		require.Len(t, got.Details, 2)
		require.Equal(t, "考勤", got.Details[1].Item)
		require.False(t, got.LastUpdatedAt.IsZero())
	}
	{
		// overwriting the same key must replace every non-key column,
		// not accumulate a second row
		err := store.Put(ctx, Score{
			Key:        key,
			CourseName: "高等数学",
			Score:      "95",
			Credits:    5.0,
		})
		require.NoError(t, err)

		got, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "95", got.Score)
		require.Equal(t, "", got.NormalScore)
		require.Nil(t, got.Details)

		all, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
	}
	{
		err := store.Put(ctx, Score{
			Key:        Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "PHYS1201"},
			CourseName: "大学物理",
			Score:      "优秀",
			Credits:    3.5,
		})
		require.NoError(t, err)

		all, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		// ordered by key
		require.Equal(t, "MATH1101", all[0].CourseCode)
		require.Equal(t, "PHYS1201", all[1].CourseCode)
	}
}
