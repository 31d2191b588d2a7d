package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/domain"
)

// TriggerStrategy starts a recurring daily firing anchored at a wall-clock
// time. Start returns a stop function that is safe to call more than once.
// The two implementations mirror the two platform trigger families: a
// calendar entry the runtime re-fires at that wall-clock time every day, and
// a measured delay to the next occurrence repeated with a one-day period.
type TriggerStrategy interface {
	Start(timeOfDay time.Time, fire func()) (stop func(), err error)
}

// CalendarStrategy registers a daily cron entry keyed by hour and minute.
type CalendarStrategy struct {
	c *cron.Cron
}

func NewCalendarStrategy(loc *time.Location) *CalendarStrategy {
	c := cron.New(cron.WithLocation(loc))
	c.Start()
	return &CalendarStrategy{c: c}
}

func (s *CalendarStrategy) Start(timeOfDay time.Time, fire func()) (func(), error) {
	spec := fmt.Sprintf("%d %d * * *", timeOfDay.Minute(), timeOfDay.Hour())
	id, err := s.c.AddFunc(spec, fire)
	if err != nil {
		return nil, err
	}
	return func() { s.c.Remove(id) }, nil
}

// Stop halts the underlying cron runner.
func (s *CalendarStrategy) Stop() {
	<-s.c.Stop().Done()
}

// IntervalStrategy sleeps until the next occurrence, fires, then repeats with
// a fixed one-day period. The first fire becomes the recurrence anchor.
type IntervalStrategy struct {
	now    func() time.Time
	period time.Duration
}

func NewIntervalStrategy(now func() time.Time) *IntervalStrategy {
	return &IntervalStrategy{now: now, period: 24 * time.Hour}
}

func (s *IntervalStrategy) Start(timeOfDay time.Time, fire func()) (func(), error) {
	nowT := s.now()
	secs := domain.SecondsUntil(domain.NextTrigger(timeOfDay, nowT), nowT)

	done := make(chan struct{})
	go func() {
		timer := time.NewTimer(time.Duration(secs) * time.Second)
		defer timer.Stop()
		select {
		case <-timer.C:
			fire()
		case <-done:
			return
		}
		ticker := time.NewTicker(s.period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fire()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}
