package scoresync

import (
	"context"
	"time"

	"github.com/mazen160/go-random"
)

// Throttle is the deliberate pacing gap between the two portal
// reads of a run. it exists to keep the traffic pattern from
// looking automated and must stay an explicit pipeline step, the
// jitter keeps consecutive runs from pausing for the exact same
// duration.
type Throttle struct {
	Base   time.Duration
	Jitter time.Duration
}

var DefaultThrottle = Throttle{
	Base:   time.Second * 2,
	Jitter: time.Millisecond * 750,
}

func (t Throttle) Wait(ctx context.Context) error {
	delay := t.Base
	if t.Jitter > 0 {
		n, err := random.IntRange(0, int(t.Jitter/time.Millisecond))
		if err == nil {
			delay += time.Duration(n) * time.Millisecond
		}
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
