package scoresync

import (
	"context"
	"errors"
	"testing"
	"time"

	"scorewatch-backend/lib/scorestore"
	"scorewatch-backend/lib/scorestore/db"
	"scorewatch-backend/lib/testutil"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) (scorestore.Store, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/scoresync",
		DbSchema: db.Schema,
	})
	return scorestore.NewStore(setup.DB), cleanup
}

func TestReconcileClassification(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	math := scorestore.Score{
		Key:        scorestore.Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "MATH1101"},
		CourseName: "高等数学",
		Score:      "92",
		Credits:    5.0,
	}
	physics := scorestore.Score{
		Key:        scorestore.Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "PHYS1201"},
		CourseName: "大学物理",
		Score:      "优秀",
		Credits:    3.5,
	}

	{
		result, err := Reconcile(ctx, store, []scorestore.Score{math, physics})
		require.NoError(t, err)
		require.Equal(t, 2, result.Inserted)
		require.Equal(t, 0, result.Updated)
		require.Len(t, result.Changes, 2)
		require.Nil(t, result.Changes[0].Old)
	}
	{
		// identical input against identical state is a no-op
		result, err := Reconcile(ctx, store, []scorestore.Score{math, physics})
		require.NoError(t, err)
		require.Equal(t, 0, result.Inserted)
		require.Equal(t, 0, result.Updated)
		require.Empty(t, result.Changes)
	}
	{
		math.Score = "95"
		result, err := Reconcile(ctx, store, []scorestore.Score{math, physics})
		require.NoError(t, err)
		require.Equal(t, 0, result.Inserted)
		require.Equal(t, 1, result.Updated)
		require.Len(t, result.Changes, 1)
		require.Equal(t, "95", result.Changes[0].New.Score)
		require.NotNil(t, result.Changes[0].Old)
		require.Equal(t, "92", result.Changes[0].Old.Score)

		got, ok, err := store.Get(ctx, math.Key)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "95", got.Score)
	}
}

func TestReconcileLastCandidateWins(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()
	key := scorestore.Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "MATH1101"}

	result, err := Reconcile(ctx, store, []scorestore.Score{
		{Key: key, Score: "88"},
		{Key: key, Score: "92"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Inserted)

	got, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "92", got.Score)
}

func TestScoresEqualNullAndEmpty(t *testing.T) {
	key := scorestore.Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "MATH1101"}

	// a stored record's absent fields come back as "" while a fresh
	// candidate may omit them too, neither is a real change
	require.True(t, scoresEqual(
		scorestore.Score{Key: key, Score: "92", Remarks: ""},
		scorestore.Score{Key: key, Score: "92"},
	))
	require.True(t, scoresEqual(
		scorestore.Score{Key: key, Details: nil},
		scorestore.Score{Key: key, Details: []scorestore.Detail{}},
	))
	require.False(t, scoresEqual(
		scorestore.Score{Key: key, Score: "92"},
		scorestore.Score{Key: key, Score: "92", Teacher: "张伟"},
	))
	require.False(t, scoresEqual(
		scorestore.Score{Key: key, Credits: 3.5},
		scorestore.Score{Key: key, Credits: 3.0},
	))
}

type failingStore struct {
	Store
	failAfter int
	puts      int
}

func (s *failingStore) Put(ctx context.Context, score scorestore.Score) error {
	if s.puts >= s.failAfter {
		return errors.New("database is locked")
	}
	s.puts++
	return s.Store.Put(ctx, score)
}

func TestReconcilePersistFailure(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()
	failing := &failingStore{Store: store, failAfter: 1}

	result, err := Reconcile(ctx, failing, []scorestore.Score{
		{Key: scorestore.Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "MATH1101"}, Score: "92"},
		{Key: scorestore.Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "PHYS1201"}, Score: "85"},
	})
	require.ErrorIs(t, err, ErrPersist)
	// the write before the failure stands
	require.Equal(t, 1, result.Inserted)

	_, ok, err := store.Get(ctx, scorestore.Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "MATH1101"})
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = store.Get(ctx, scorestore.Key{AcademicYear: "2024-2025", Semester: "1", CourseCode: "PHYS1201"})
	require.NoError(t, err)
	require.False(t, ok)
}
