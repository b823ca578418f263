package events

import (
	"context"
	"log/slog"
	"time"

	"playgrounds/internal/lib/logger/sl"
	"playgrounds/internal/models"
)

// Reconciler advances event status on wall-clock time: it suspends
// under-subscribed events approaching their start and finishes past events.
// Both sweeps are idempotent; a sweep racing a client action loses the
// compare-and-set and moves on.
type Reconciler struct {
	log      *slog.Logger
	store    EventStore
	notifier Notifier
	interval time.Duration
	now      func() time.Time
}

func NewReconciler(log *slog.Logger, store EventStore, notifier Notifier, interval time.Duration) *Reconciler {
	return &Reconciler{
		log:      log,
		store:    store,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	r.log.Info("reconciler started", slog.Duration("interval", r.interval))

	r.Sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep(ctx)
		case <-ctx.Done():
			r.log.Info("reconciler stopped")
			return
		}
	}
}

// Sweep runs the suspend pass and the finish pass. Each pass isolates its own
// failures so one bad event never halts the rest of the sweep.
func (r *Reconciler) Sweep(ctx context.Context) {
	if err := r.suspendUnderSubscribed(ctx); err != nil {
		r.log.Error("suspend sweep failed", sl.Err(err))
	}
	if err := r.finishPastEvents(ctx); err != nil {
		r.log.Error("finish sweep failed", sl.Err(err))
	}
}

func (r *Reconciler) suspendUnderSubscribed(ctx context.Context) error {
	now := r.now()

	candidates, err := r.store.EventsNearingStart(ctx, now, now.Add(SuspendLookahead))
	if err != nil {
		return err
	}

	for i := range candidates {
		e := &candidates[i]
		if !ShouldSuspend(e, now) {
			continue
		}

		swapped, err := r.store.SetStatus(ctx, e.ID, models.StatusAvailable, models.StatusSuspended)
		if err != nil {
			r.log.Error("failed to suspend event", slog.Int64("event_id", e.ID), sl.Err(err))
			continue
		}
		if !swapped {
			// Another actor moved the event first.
			continue
		}
		e.Status = models.StatusSuspended

		r.log.Info("event suspended",
			slog.Int64("event_id", e.ID),
			slog.Int("participants", len(e.Participants)),
			slog.Int("min_participants", e.MinParticipants),
		)
		if err := r.notifier.EventSuspended(ctx, e); err != nil {
			r.log.Warn("failed to send suspension notification", slog.Int64("event_id", e.ID), sl.Err(err))
		}
	}

	return nil
}

func (r *Reconciler) finishPastEvents(ctx context.Context) error {
	now := r.now()

	past, err := r.store.EventsPastStart(ctx, now)
	if err != nil {
		return err
	}

	for i := range past {
		e := &past[i]
		if !ShouldFinish(e, now) {
			continue
		}

		swapped, err := r.store.SetStatus(ctx, e.ID, e.Status, models.StatusFinished)
		if err != nil {
			r.log.Error("failed to finish event", slog.Int64("event_id", e.ID), sl.Err(err))
			continue
		}
		if swapped {
			r.log.Info("event finished", slog.Int64("event_id", e.ID))
		}
	}

	return nil
}
