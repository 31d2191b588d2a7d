package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrValidation marks a reminder rejected because a required field is empty.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an update referencing an id absent from the store.
	ErrNotFound = errors.New("reminder not found")
	// ErrScheduling marks a trigger registration rejected by the runtime.
	ErrScheduling = errors.New("scheduling failed")
	// ErrPersistenceWrite marks a failed write; the reminder is not durably saved.
	ErrPersistenceWrite = errors.New("persistence write failed")
	// ErrPersistenceCorrupt marks a stored blob that cannot be parsed.
	ErrPersistenceCorrupt = errors.New("persisted data corrupt")
)

// Reminder is the single persisted entity: one daily medication dose for one
// patient. NotificationID references the currently registered trigger and is
// empty only in transient states (between cancel and re-register).
type Reminder struct {
	ID             string    `json:"id"`
	PatientName    string    `json:"patientName"`
	MedName        string    `json:"medName"`
	MedQuantity    string    `json:"medQuantity"`
	Time           time.Time `json:"time"`
	NotificationID string    `json:"notificationId,omitempty"`
}

// NewReminder builds a validated reminder with a fresh id. The date component
// of t is irrelevant; only its hour and minute anchor the daily schedule.
func NewReminder(patient, med, quantity string, t time.Time) (Reminder, error) {
	r := Reminder{
		ID:          uuid.NewString(),
		PatientName: strings.TrimSpace(patient),
		MedName:     strings.TrimSpace(med),
		MedQuantity: strings.TrimSpace(quantity),
		Time:        t.Truncate(time.Minute),
	}
	if err := r.Validate(); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// Validate rejects reminders with empty text fields.
func (r Reminder) Validate() error {
	switch {
	case strings.TrimSpace(r.PatientName) == "":
		return fmt.Errorf("%w: patient name required", ErrValidation)
	case strings.TrimSpace(r.MedName) == "":
		return fmt.Errorf("%w: medication name required", ErrValidation)
	case strings.TrimSpace(r.MedQuantity) == "":
		return fmt.Errorf("%w: quantity required", ErrValidation)
	}
	return nil
}

// SameClock reports whether two reminders fire at the same wall-clock time.
// Edits that keep the clock unchanged may reuse the registered trigger.
func (r Reminder) SameClock(other Reminder) bool {
	return r.Time.Hour() == other.Time.Hour() && r.Time.Minute() == other.Time.Minute()
}
