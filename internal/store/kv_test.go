package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskvKV_RoundTrip(t *testing.T) {
	kv, err := OpenDiskv(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)
	defer kv.Close()
	ctx := context.Background()

	_, found, err := kv.Get(ctx, "lembretes")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "lembretes", []byte(`[{"id":"a"}]`)))

	blob, found, err := kv.Get(ctx, "lembretes")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`[{"id":"a"}]`), blob)

	// overwrite replaces the previous value
	require.NoError(t, kv.Set(ctx, "lembretes", []byte(`[]`)))
	blob, _, err = kv.Get(ctx, "lembretes")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), blob)
}

func TestSQLiteKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "reminders.db"))
	require.NoError(t, err)
	defer kv.Close()

	_, found, err := kv.Get(ctx, "lembretes")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "lembretes", []byte(`[{"id":"a"}]`)))
	require.NoError(t, kv.Set(ctx, "lembretes", []byte(`[{"id":"b"}]`)))

	blob, found, err := kv.Get(ctx, "lembretes")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`[{"id":"b"}]`), blob)
}
