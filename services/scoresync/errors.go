package scoresync

import "errors"

// error kinds reported at the trigger boundary. auth and persist
// failures are terminal for a run, fetch failures degrade the run
// to whatever record class could still be retrieved.
var (
	ErrAuth    = errors.New("failed to acquire a portal session")
	ErrFetch   = errors.New("failed to fetch a score page")
	ErrPersist = errors.New("failed to persist scores")
)
