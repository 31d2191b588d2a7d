package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/notify"
)

// Runtime plays the role of the platform notification scheduler: it owns the
// live set of registered triggers and fires their content through a Notifier.
// Handles are opaque; cancelling an unknown or expired handle is a no-op.
type Runtime struct {
	log      *zap.Logger
	notifier notify.Notifier
	strategy TriggerStrategy

	mu       sync.Mutex
	triggers map[string]func() // handle -> stop
}

func NewRuntime(strategy TriggerStrategy, notifier notify.Notifier, log *zap.Logger) *Runtime {
	return &Runtime{
		log:      log,
		notifier: notifier,
		strategy: strategy,
		triggers: make(map[string]func()),
	}
}

// Schedule registers a recurring daily trigger for content at timeOfDay and
// returns its handle.
func (rt *Runtime) Schedule(content notify.Content, timeOfDay time.Time) (string, error) {
	fire := func() {
		if err := rt.notifier.Send(context.Background(), content); err != nil {
			rt.log.Warn("notification delivery failed",
				zap.String("title", content.Title), zap.Error(err))
		}
	}
	stop, err := rt.strategy.Start(timeOfDay, fire)
	if err != nil {
		return "", err
	}

	handle := uuid.NewString()
	rt.mu.Lock()
	rt.triggers[handle] = stop
	rt.mu.Unlock()

	rt.log.Debug("trigger registered",
		zap.String("handle", handle), zap.String("at", timeOfDay.Format("15:04")))
	return handle, nil
}

// Cancel stops the trigger behind handle. Idempotent.
func (rt *Runtime) Cancel(handle string) {
	rt.mu.Lock()
	stop, ok := rt.triggers[handle]
	if ok {
		delete(rt.triggers, handle)
	}
	rt.mu.Unlock()
	if ok {
		stop()
		rt.log.Debug("trigger cancelled", zap.String("handle", handle))
	}
}

// Active returns the number of currently registered triggers.
func (rt *Runtime) Active() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.triggers)
}

// Stop cancels every registered trigger.
func (rt *Runtime) Stop() {
	rt.mu.Lock()
	stops := make([]func(), 0, len(rt.triggers))
	for _, stop := range rt.triggers {
		stops = append(stops, stop)
	}
	rt.triggers = make(map[string]func())
	rt.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
}
