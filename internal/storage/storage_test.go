package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreRoundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k1", []byte(`[{"qty":1}]`)))
	v, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"qty":1}]`, string(v))

	require.NoError(t, s.Set(ctx, "k1", []byte(`[]`)))
	v, ok, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(v))

	require.NoError(t, s.Delete(ctx, "k1"))
	_, ok, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting a missing key is not an error
	require.NoError(t, s.Delete(ctx, "k1"))
}

func TestMemoryStore(t *testing.T) {
	testStoreRoundTrip(t, NewMemory())
}

func TestLocalStore(t *testing.T) {
	testStoreRoundTrip(t, NewLocal(filepath.Join(t.TempDir(), "kv")))
}

func TestLocalStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kv")
	ctx := context.Background()

	first := NewLocal(dir)
	require.NoError(t, first.Set(ctx, "cart:s1", []byte(`[1,2,3]`)))

	second := NewLocal(dir)
	v, ok, err := second.Get(ctx, "cart:s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[1,2,3]`, string(v))
}

func TestLocalStoreKeysAreFilesystemSafe(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kv")
	s := NewLocal(dir)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart:../../etc/passwd", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "..")
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("abc")))
	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	v[0] = 'z'

	again, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestFactoryDefaultsToLocal(t *testing.T) {
	t.Setenv("KV_DRIVER", "")
	t.Setenv("LOCAL_KV_DIR", filepath.Join(t.TempDir(), "kv"))

	res, err := FromEnv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", res.Driver)
	testStoreRoundTrip(t, res.Store)
}

func TestFactoryUnknownDriver(t *testing.T) {
	t.Setenv("KV_DRIVER", "scrolls")

	_, err := FromEnv(context.Background())
	assert.Error(t, err)
}

func TestFactoryMysqlRequiresDSN(t *testing.T) {
	t.Setenv("KV_DRIVER", "mysql")
	t.Setenv("DB_DSN", "")

	_, err := FromEnv(context.Background())
	assert.Error(t, err)
}
