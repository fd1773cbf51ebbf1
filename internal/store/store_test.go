package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stillpoint/breathbox/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *store.KV {
	t.Helper()

	kv, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, kv.Close())
	})

	return kv
}

func TestKV_GetMissingKey(t *testing.T) {
	kv := openTestStore(t)

	value, ok, err := kv.Get("absent")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestKV_SetAndGet(t *testing.T) {
	kv := openTestStore(t)

	require.NoError(t, kv.Set("theme", "dark"))

	value, ok, err := kv.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestKV_SetOverwrites(t *testing.T) {
	kv := openTestStore(t)

	require.NoError(t, kv.Set("theme", "dark"))
	require.NoError(t, kv.Set("theme", "light"))

	value, ok, err := kv.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", value)
}

func TestKV_KeysAreIndependent(t *testing.T) {
	kv := openTestStore(t)

	require.NoError(t, kv.Set("stats", `{"sessions":1,"totalCycles":4}`))
	require.NoError(t, kv.Set("theme", "dark"))

	stats, ok, err := kv.Get("stats")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"sessions":1,"totalCycles":4}`, stats)

	theme, ok, err := kv.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", theme)
}
