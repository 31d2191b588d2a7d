package scheduler

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/domain"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/notify"
)

type fakeRuntime struct {
	next      int
	active    map[string]notify.Content
	cancelled []string
	fail      bool
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{active: map[string]notify.Content{}}
}

func (f *fakeRuntime) Schedule(content notify.Content, _ time.Time) (string, error) {
	if f.fail {
		return "", errors.New("permission revoked")
	}
	f.next++
	handle := fmt.Sprintf("trigger-%d", f.next)
	f.active[handle] = content
	return handle, nil
}

func (f *fakeRuntime) Cancel(handle string) {
	f.cancelled = append(f.cancelled, handle)
	delete(f.active, handle)
}

func reminderAt(t *testing.T, hh, mm int) domain.Reminder {
	t.Helper()
	r, err := domain.NewReminder("Ana", "Paracetamol", "500mg",
		time.Date(2024, 1, 1, hh, mm, 0, 0, time.UTC))
	require.NoError(t, err)
	return r
}

func TestScheduler_Register(t *testing.T) {
	rt := newFakeRuntime()
	s := New(rt, zap.NewNop())

	handle, err := s.Register(reminderAt(t, 14, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, handle)
	assert.Len(t, rt.active, 1)
	assert.Contains(t, rt.active[handle].Body, "Paracetamol")
}

func TestScheduler_RegisterRejected(t *testing.T) {
	rt := newFakeRuntime()
	rt.fail = true
	s := New(rt, zap.NewNop())

	_, err := s.Register(reminderAt(t, 14, 0))
	assert.ErrorIs(t, err, domain.ErrScheduling)
	assert.Empty(t, rt.active)
}

func TestScheduler_CancelEmptyHandle(t *testing.T) {
	rt := newFakeRuntime()
	s := New(rt, zap.NewNop())

	s.Cancel("")
	assert.Empty(t, rt.cancelled)
}

func TestScheduler_ReconcileUnchangedReusesHandle(t *testing.T) {
	rt := newFakeRuntime()
	s := New(rt, zap.NewNop())

	old := reminderAt(t, 14, 0)
	old.NotificationID, _ = s.Register(old)

	updated := old
	updated.Time = old.Time.AddDate(0, 0, 5) // same clock, later date

	handle, err := s.Reconcile(old, updated)
	require.NoError(t, err)
	assert.Equal(t, old.NotificationID, handle)
	assert.Empty(t, rt.cancelled)
	assert.Len(t, rt.active, 1)
}

func TestScheduler_ReconcileTimeChange(t *testing.T) {
	rt := newFakeRuntime()
	s := New(rt, zap.NewNop())

	old := reminderAt(t, 14, 0)
	old.NotificationID, _ = s.Register(old)

	updated := old
	updated.Time = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	handle, err := s.Reconcile(old, updated)
	require.NoError(t, err)
	assert.NotEqual(t, old.NotificationID, handle)
	assert.Equal(t, []string{old.NotificationID}, rt.cancelled)
	assert.Len(t, rt.active, 1)
}

func TestScheduler_ReconcileTextChange(t *testing.T) {
	rt := newFakeRuntime()
	s := New(rt, zap.NewNop())

	old := reminderAt(t, 14, 0)
	old.NotificationID, _ = s.Register(old)

	updated := old
	updated.MedName = "Ibuprofeno"

	handle, err := s.Reconcile(old, updated)
	require.NoError(t, err)
	assert.NotEqual(t, old.NotificationID, handle)
	assert.Contains(t, rt.active[handle].Body, "Ibuprofeno")
}

func TestScheduler_ReconcileWithoutHandleRegisters(t *testing.T) {
	rt := newFakeRuntime()
	s := New(rt, zap.NewNop())

	old := reminderAt(t, 14, 0) // no handle: transient state after a restart
	handle, err := s.Reconcile(old, old)
	require.NoError(t, err)
	assert.NotEmpty(t, handle)
	assert.Empty(t, rt.cancelled)
}
