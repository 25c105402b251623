package scoresync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"scorewatch-backend/lib/scorestore"
	"scorewatch-backend/lib/scrapers/jwc"
	"scorewatch-backend/lib/telemetry"

	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("scorewatch.services.scoresync")

// Source acquires a portal session and reads the two score pages.
// implemented by *jwc.Client, faked in tests.
type Source interface {
	Login(ctx context.Context, username, password string) error
	FetchCumulativeScores(ctx context.Context) ([]jwc.RawRecord, error)
	FetchContinuousScores(ctx context.Context) ([]jwc.RawRecord, error)
}

type Notifier interface {
	Send(ctx context.Context, subject, html string) error
}

// Credentials are the two opaque portal secrets. they are handed to
// Source.Login and nothing else, never logged and never persisted.
type Credentials struct {
	Username string
	Password string
}

type Options struct {
	Credentials Credentials
	Throttle    Throttle
}

type Service struct {
	source   Source
	store    Store
	notifier Notifier
	options  Options
}

// NewService wires the sync pipeline. notifier may be nil to
// disable notifications entirely.
func NewService(source Source, store Store, notifier Notifier, options Options) Service {
	if options.Throttle == (Throttle{}) {
		options.Throttle = DefaultThrottle
	}
	return Service{
		source:   source,
		store:    store,
		notifier: notifier,
		options:  options,
	}
}

// RunOutcome is a successful run's summary. Note carries a human
// readable remark when part of the run degraded (a score page that
// could not be fetched).
type RunOutcome struct {
	Result Result
	Note   string
}

// Sync performs one full run: login, fetch both record classes with
// the pacing gap in between, normalize, reconcile, and notify when
// something changed. the two fetches are independent best-effort,
// auth and persistence failures are terminal.
func (s Service) Sync(ctx context.Context) (RunOutcome, error) {
	ctx, span := tracer.Start(ctx, "service:Sync")
	defer span.End()

	err := s.source.Login(ctx, s.options.Credentials.Username, s.options.Credentials.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return RunOutcome{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}

	var notes []string
	var candidates []scorestore.Score

	cumulative, err := s.source.FetchCumulativeScores(ctx)
	if err != nil {
		slog.WarnContext(ctx, "cumulative score fetch failed", "err", fmt.Errorf("%w: %v", ErrFetch, err))
		notes = append(notes, "cumulative scores could not be fetched")
	} else {
		candidates = append(candidates, Normalize(ctx, cumulative, ClassCumulative)...)
	}

	err = s.options.Throttle.Wait(ctx)
	if err != nil {
		return RunOutcome{}, err
	}

	continuous, err := s.source.FetchContinuousScores(ctx)
	if err != nil {
		slog.WarnContext(ctx, "continuous score fetch failed", "err", fmt.Errorf("%w: %v", ErrFetch, err))
		notes = append(notes, "continuous scores could not be fetched")
	} else {
		candidates = append(candidates, Normalize(ctx, continuous, ClassContinuous)...)
	}

	result, err := Reconcile(ctx, s.store, candidates)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reconcile failed")
		return RunOutcome{}, err
	}

	slog.InfoContext(
		ctx, "reconciled scores",
		"candidates", len(candidates),
		"inserted", result.Inserted,
		"updated", result.Updated,
	)

	plan := Decide(result)
	if plan != nil && s.notifier != nil {
		// notification is best-effort, a sink failure never fails
		// a run that already reconciled
		err := s.notifier.Send(ctx, plan.Subject, plan.Body)
		if err != nil {
			slog.ErrorContext(ctx, "failed to send score notification", "err", err)
		}
	}

	return RunOutcome{
		Result: result,
		Note:   strings.Join(notes, "; "),
	}, nil
}
