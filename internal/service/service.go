// Package service ties the reminder store and the notification scheduler
// together and enforces their ordering contract: a trigger is registered
// before its handle is persisted, and cancelled before (or as) its record is
// discarded.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/domain"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/scheduler"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/store"
)

type Service struct {
	store *store.ReminderStore
	sched *scheduler.Scheduler
	log   *zap.Logger
	now   func() time.Time
}

func New(st *store.ReminderStore, sched *scheduler.Scheduler, log *zap.Logger) *Service {
	return &Service{store: st, sched: sched, log: log, now: time.Now}
}

// List returns all persisted reminders in insertion order.
func (s *Service) List(ctx context.Context) ([]domain.Reminder, error) {
	return s.store.List(ctx)
}

// Get returns a single reminder by id.
func (s *Service) Get(ctx context.Context, id string) (domain.Reminder, error) {
	return s.store.Get(ctx, id)
}

// Create validates the fields, registers the daily trigger and only then
// persists the reminder carrying the trigger handle. A failed write cancels
// the fresh trigger so nothing fires for a reminder the user never saw saved.
func (s *Service) Create(ctx context.Context, patient, med, quantity string, hour, minute int) (domain.Reminder, error) {
	r, err := domain.NewReminder(patient, med, quantity, domain.ClockToday(hour, minute, s.now()))
	if err != nil {
		return domain.Reminder{}, err
	}

	handle, err := s.sched.Register(r)
	if err != nil {
		return domain.Reminder{}, err
	}
	r.NotificationID = handle

	if err := s.store.Add(ctx, r); err != nil {
		s.sched.Cancel(handle)
		return domain.Reminder{}, err
	}

	s.log.Info("reminder created",
		zap.String("id", r.ID),
		zap.String("med", r.MedName),
		zap.String("at", domain.FormatClock(r.Time)))
	return r, nil
}

// Edit reconciles the trigger against the edited fields, then persists the
// record with the resulting handle. Registration precedes persistence.
func (s *Service) Edit(ctx context.Context, id string, fields store.UpdateFields) (domain.Reminder, error) {
	old, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Reminder{}, err
	}

	updated := fields.Apply(old)
	if err := updated.Validate(); err != nil {
		return domain.Reminder{}, err
	}

	handle, err := s.sched.Reconcile(old, updated)
	if err != nil {
		return domain.Reminder{}, err
	}
	fields.NotificationID = &handle

	rec, err := s.store.Update(ctx, id, fields)
	if err != nil {
		if handle != old.NotificationID {
			s.sched.Cancel(handle)
		}
		return domain.Reminder{}, err
	}

	s.log.Info("reminder updated", zap.String("id", id), zap.String("at", domain.FormatClock(rec.Time)))
	return rec, nil
}

// Delete cancels the trigger first and removes the record regardless:
// a leftover trigger degrades to one stale firing, a leftover record would
// keep resurrecting the trigger on every resync. Deleting an absent id is a
// no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	r, err := s.store.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.sched.Cancel(r.NotificationID)
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}

	s.log.Info("reminder deleted", zap.String("id", id))
	return nil
}

// Resync re-registers a trigger for every stored reminder and rewrites the
// handles. Triggers live in-process, so a restart invalidates all of them;
// the persisted handles are stale until this runs.
func (s *Service) Resync(ctx context.Context) error {
	reminders, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	for _, r := range reminders {
		handle, err := s.sched.Register(r)
		if err != nil {
			s.log.Error("resync: trigger registration failed",
				zap.String("id", r.ID), zap.Error(err))
			continue
		}
		if _, err := s.store.Update(ctx, r.ID, store.UpdateFields{NotificationID: &handle}); err != nil {
			s.log.Error("resync: handle rewrite failed",
				zap.String("id", r.ID), zap.Error(err))
			s.sched.Cancel(handle)
		}
	}

	s.log.Info("reminders resynced", zap.Int("count", len(reminders)))
	return nil
}
