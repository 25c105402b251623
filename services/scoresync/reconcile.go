package scoresync

import (
	"context"
	"fmt"

	"scorewatch-backend/lib/scorestore"
)

// Store is the narrow slice of the score store the reconciler
// needs. Put has insert-or-update semantics and must be atomic
// per key.
type Store interface {
	Get(ctx context.Context, key scorestore.Key) (scorestore.Score, bool, error)
	Put(ctx context.Context, score scorestore.Score) error
}

// Change is one inserted or updated record. Old is nil on insert.
type Change struct {
	New scorestore.Score
	Old *scorestore.Score
}

type Result struct {
	Inserted int
	Updated  int
	Changes  []Change
}

// Reconcile merges the candidate records into the store, classifying
// every key as insert, update or unchanged. non-key fields are fully
// overwritten on update, never patched. a store failure aborts the
// remaining batch, records already written stay written.
func Reconcile(ctx context.Context, store Store, candidates []scorestore.Score) (Result, error) {
	ctx, span := tracer.Start(ctx, "Reconcile")
	defer span.End()

	var result Result
	for _, candidate := range dedupe(candidates) {
		existing, found, err := store.Get(ctx, candidate.Key)
		if err != nil {
			return result, fmt.Errorf("%w: %v", ErrPersist, err)
		}

		if !found {
			err = store.Put(ctx, candidate)
			if err != nil {
				return result, fmt.Errorf("%w: %v", ErrPersist, err)
			}
			result.Inserted++
			result.Changes = append(result.Changes, Change{New: candidate})
			continue
		}

		if scoresEqual(existing, candidate) {
			continue
		}

		err = store.Put(ctx, candidate)
		if err != nil {
			return result, fmt.Errorf("%w: %v", ErrPersist, err)
		}
		result.Updated++
		old := existing
		result.Changes = append(result.Changes, Change{New: candidate, Old: &old})
	}

	return result, nil
}

// the two record classes should never collide on key, but if a
// data-source anomaly produces duplicates within one batch, the
// last candidate wins and earlier ones are silently superseded
func dedupe(candidates []scorestore.Score) []scorestore.Score {
	index := map[scorestore.Key]int{}
	var out []scorestore.Score
	for _, candidate := range candidates {
		i, seen := index[candidate.Key]
		if seen {
			out[i] = candidate
			continue
		}
		index[candidate.Key] = len(out)
		out = append(out, candidate)
	}
	return out
}

// scoresEqual compares every non-key field. the portal is not
// consistent about empty cells, so "" and an absent value count as
// equal, and credits compare numerically after the normalizer's
// one-decimal rounding.
func scoresEqual(a, b scorestore.Score) bool {
	return a.CourseName == b.CourseName &&
		a.Score == b.Score &&
		a.Credits == b.Credits &&
		a.CourseNature == b.CourseNature &&
		a.Teacher == b.Teacher &&
		a.FinalScore == b.FinalScore &&
		a.NormalScore == b.NormalScore &&
		a.ExamType == b.ExamType &&
		a.Remarks == b.Remarks &&
		detailsEqual(a.Details, b.Details)
}

func detailsEqual(a, b []scorestore.Detail) bool {
	// nil and zero-length both mean "no breakdown"
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
