package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/domain"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/notify"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/scheduler"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/store"
)

type memKV struct {
	data    map[string][]byte
	failSet bool
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	blob, ok := m.data[key]
	return blob, ok, nil
}

func (m *memKV) Set(_ context.Context, key string, blob []byte) error {
	if m.failSet {
		return errors.New("disk full")
	}
	m.data[key] = blob
	return nil
}

func (m *memKV) Close() error { return nil }

type fakeRuntime struct {
	next      int
	active    map[string]time.Time // handle -> registered time-of-day
	cancelled []string
	fail      bool
}

func (f *fakeRuntime) Schedule(_ notify.Content, timeOfDay time.Time) (string, error) {
	if f.fail {
		return "", errors.New("os rejected registration")
	}
	f.next++
	handle := fmt.Sprintf("trigger-%d", f.next)
	f.active[handle] = timeOfDay
	return handle, nil
}

func (f *fakeRuntime) Cancel(handle string) {
	f.cancelled = append(f.cancelled, handle)
	delete(f.active, handle)
}

// harness wires a real store and scheduler around in-memory fakes with a
// fixed clock of 2024-01-01 10:00 UTC.
func harness(t *testing.T) (*Service, *fakeRuntime, *memKV) {
	t.Helper()
	kv := &memKV{data: map[string][]byte{}}
	rt := &fakeRuntime{active: map[string]time.Time{}}
	log := zap.NewNop()
	svc := New(store.NewReminderStore(kv, log), scheduler.New(rt, log), log)
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) }
	return svc, rt, kv
}

// checkInvariant asserts that live trigger handles and persisted handles are
// the same set: one registered trigger per stored reminder, none orphaned.
func checkInvariant(t *testing.T, svc *Service, rt *fakeRuntime) {
	t.Helper()
	reminders, err := svc.List(context.Background())
	require.NoError(t, err)

	withHandle := 0
	for _, r := range reminders {
		if r.NotificationID != "" {
			withHandle++
			_, ok := rt.active[r.NotificationID]
			assert.True(t, ok, "reminder %s points at unregistered handle %s", r.ID, r.NotificationID)
		}
	}
	assert.Equal(t, withHandle, len(rt.active))
}

func TestCreate_RegistersThenPersists(t *testing.T) {
	svc, rt, _ := harness(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, "Ana", "Paracetamol", "500mg", 14, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, r.NotificationID)

	// Trigger registered for 14:00; now is 10:00 so it fires today.
	tod := rt.active[r.NotificationID]
	assert.Equal(t, "14:00", domain.FormatClock(tod))
	next := domain.NextTrigger(tod, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC), next)

	checkInvariant(t, svc, rt)
}

func TestCreate_ValidationFailureLeavesNoState(t *testing.T) {
	svc, rt, kv := harness(t)

	_, err := svc.Create(context.Background(), "", "Paracetamol", "500mg", 14, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, rt.active)
	assert.Empty(t, kv.data)
}

func TestCreate_SchedulingFailureNotPersisted(t *testing.T) {
	svc, rt, _ := harness(t)
	rt.fail = true

	_, err := svc.Create(context.Background(), "Ana", "Paracetamol", "500mg", 14, 0)
	assert.ErrorIs(t, err, domain.ErrScheduling)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreate_WriteFailureCancelsFreshTrigger(t *testing.T) {
	svc, rt, kv := harness(t)
	kv.failSet = true

	_, err := svc.Create(context.Background(), "Ana", "Paracetamol", "500mg", 14, 0)
	assert.ErrorIs(t, err, domain.ErrPersistenceWrite)
	assert.Empty(t, rt.active, "orphaned trigger left after failed write")
	assert.Len(t, rt.cancelled, 1)
}

func TestEdit_TimeChangeSwapsTrigger(t *testing.T) {
	svc, rt, _ := harness(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, "Ana", "Paracetamol", "500mg", 14, 0)
	require.NoError(t, err)
	oldHandle := r.NotificationID

	newTime := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	updated, err := svc.Edit(ctx, r.ID, store.UpdateFields{Time: &newTime})
	require.NoError(t, err)

	assert.NotEqual(t, oldHandle, updated.NotificationID)
	assert.Contains(t, rt.cancelled, oldHandle)

	// 08:00 is already past at now=10:00, so the next occurrence rolls over.
	next := domain.NextTrigger(rt.active[updated.NotificationID], time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), next)

	checkInvariant(t, svc, rt)
}

func TestEdit_TextOnlyChangeReRegisters(t *testing.T) {
	svc, rt, _ := harness(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, "Ana", "Paracetamol", "500mg", 14, 0)
	require.NoError(t, err)

	med := "Dipirona"
	updated, err := svc.Edit(ctx, r.ID, store.UpdateFields{MedName: &med})
	require.NoError(t, err)
	assert.Equal(t, "Dipirona", updated.MedName)
	checkInvariant(t, svc, rt)
}

func TestEdit_UnknownID(t *testing.T) {
	svc, _, _ := harness(t)
	_, err := svc.Edit(context.Background(), "missing", store.UpdateFields{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_CancelsThenRemoves(t *testing.T) {
	svc, rt, _ := harness(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, "Ana", "Paracetamol", "500mg", 14, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r.ID))
	assert.Contains(t, rt.cancelled, r.NotificationID)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	checkInvariant(t, svc, rt)

	// idempotent
	require.NoError(t, svc.Delete(ctx, r.ID))
}

func TestResync_RewritesHandles(t *testing.T) {
	svc, rt, _ := harness(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, "Ana", "Paracetamol", "500mg", 14, 0)
	require.NoError(t, err)

	// Simulate a restart: live triggers are gone, stored handles are stale.
	rt.active = map[string]time.Time{}

	require.NoError(t, svc.Resync(ctx))

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.NotEqual(t, r.NotificationID, got.NotificationID)
	checkInvariant(t, svc, rt)
}

func TestInvariant_AfterMixedSequence(t *testing.T) {
	svc, rt, _ := harness(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "Ana", "Paracetamol", "500mg", 14, 0)
	require.NoError(t, err)
	b, err := svc.Create(ctx, "Bento", "Ibuprofeno", "200mg", 9, 30)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Clara", "Dipirona", "1g", 22, 15)
	require.NoError(t, err)

	newTime := time.Date(2024, 1, 1, 7, 45, 0, 0, time.UTC)
	_, err = svc.Edit(ctx, b.ID, store.UpdateFields{Time: &newTime})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	require.NoError(t, svc.Delete(ctx, a.ID))

	checkInvariant(t, svc, rt)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, len(rt.active))
}
