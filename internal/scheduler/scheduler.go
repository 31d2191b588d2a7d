package scheduler

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/domain"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/notify"
)

// TriggerRuntime is the scheduling collaborator the Scheduler drives. Runtime
// implements it; tests substitute a fake.
type TriggerRuntime interface {
	Schedule(content notify.Content, timeOfDay time.Time) (string, error)
	Cancel(handle string)
}

// Scheduler maps reminders to triggers: one live handle per reminder, never
// more. It owns registration, cancellation and the cancel-then-register
// reconciliation on edits.
type Scheduler struct {
	rt  TriggerRuntime
	log *zap.Logger
}

func New(rt TriggerRuntime, log *zap.Logger) *Scheduler {
	return &Scheduler{rt: rt, log: log}
}

// Register creates a recurring daily trigger for the reminder and returns its
// handle. The caller must persist the handle only after Register succeeds.
func (s *Scheduler) Register(r domain.Reminder) (string, error) {
	handle, err := s.rt.Schedule(notify.ForReminder(r), r.Time)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrScheduling, err)
	}
	return handle, nil
}

// Cancel stops the trigger behind handle. Empty and stale handles are no-ops.
func (s *Scheduler) Cancel(handle string) {
	if handle == "" {
		return
	}
	s.rt.Cancel(handle)
}

// Reconcile aligns the trigger with an edited reminder. An edit that changes
// neither the wall-clock time nor the notification text keeps the old handle;
// anything else cancels it and registers a fresh trigger. There is no
// in-place transition: a changed trigger always passes through cancel.
func (s *Scheduler) Reconcile(old, updated domain.Reminder) (string, error) {
	if old.NotificationID != "" && old.SameClock(updated) && notify.ForReminder(old) == notify.ForReminder(updated) {
		return old.NotificationID, nil
	}

	s.Cancel(old.NotificationID)
	handle, err := s.Register(updated)
	if err != nil {
		return "", err
	}
	s.log.Debug("trigger reconciled",
		zap.String("reminder", updated.ID),
		zap.String("old", old.NotificationID),
		zap.String("new", handle))
	return handle, nil
}
