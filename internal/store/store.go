package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/domain"
)

// remindersKey is the single fixed key holding the whole reminder list.
const remindersKey = "lembretes"

// ReminderStore owns the persisted reminder collection. Every mutation
// rewrites the full list; the target is a personal list of tens of entries.
type ReminderStore struct {
	kv  KV
	log *zap.Logger
}

// UpdateFields holds optional fields for a partial update.
type UpdateFields struct {
	PatientName    *string
	MedName        *string
	MedQuantity    *string
	Time           *time.Time
	NotificationID *string
}

// Apply returns a copy of r with the set fields replaced.
func (f UpdateFields) Apply(r domain.Reminder) domain.Reminder {
	if f.PatientName != nil {
		r.PatientName = *f.PatientName
	}
	if f.MedName != nil {
		r.MedName = *f.MedName
	}
	if f.MedQuantity != nil {
		r.MedQuantity = *f.MedQuantity
	}
	if f.Time != nil {
		r.Time = f.Time.Truncate(time.Minute)
	}
	if f.NotificationID != nil {
		r.NotificationID = *f.NotificationID
	}
	return r
}

func NewReminderStore(kv KV, log *zap.Logger) *ReminderStore {
	return &ReminderStore{kv: kv, log: log}
}

// List returns all reminders in insertion order. A corrupt blob is logged and
// degraded to an empty list: a broken local cache must not block the UI.
func (s *ReminderStore) List(ctx context.Context) ([]domain.Reminder, error) {
	blob, found, err := s.kv.Get(ctx, remindersKey)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	if !found || len(blob) == 0 {
		return nil, nil
	}

	var reminders []domain.Reminder
	if err := json.Unmarshal(blob, &reminders); err != nil {
		s.log.Error("stored reminders unparsable, degrading to empty list",
			zap.Error(fmt.Errorf("%w: %v", domain.ErrPersistenceCorrupt, err)))
		return nil, nil
	}
	return reminders, nil
}

// Add appends the reminder and persists the whole list.
func (s *ReminderStore) Add(ctx context.Context, r domain.Reminder) error {
	reminders, err := s.List(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(reminders, r))
}

// Update replaces the fields of the reminder matching id. Other records are
// untouched. Absent ids are an error, unlike Remove.
func (s *ReminderStore) Update(ctx context.Context, id string, fields UpdateFields) (domain.Reminder, error) {
	reminders, err := s.List(ctx)
	if err != nil {
		return domain.Reminder{}, err
	}

	for i := range reminders {
		if reminders[i].ID != id {
			continue
		}
		r := fields.Apply(reminders[i])
		if err := r.Validate(); err != nil {
			return domain.Reminder{}, err
		}
		reminders[i] = r
		if err := s.save(ctx, reminders); err != nil {
			return domain.Reminder{}, err
		}
		return r, nil
	}
	return domain.Reminder{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

// Remove deletes the reminder matching id. Removing an absent id is a no-op;
// deletion is idempotent.
func (s *ReminderStore) Remove(ctx context.Context, id string) error {
	reminders, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := reminders[:0]
	for _, r := range reminders {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(reminders) {
		return nil
	}
	return s.save(ctx, kept)
}

// Get returns the reminder matching id.
func (s *ReminderStore) Get(ctx context.Context, id string) (domain.Reminder, error) {
	reminders, err := s.List(ctx)
	if err != nil {
		return domain.Reminder{}, err
	}
	for _, r := range reminders {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Reminder{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

func (s *ReminderStore) save(ctx context.Context, reminders []domain.Reminder) error {
	blob, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceWrite, err)
	}
	if err := s.kv.Set(ctx, remindersKey, blob); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceWrite, err)
	}
	return nil
}
