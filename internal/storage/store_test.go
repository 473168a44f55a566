package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"aetheris/internal/core/model"
	"aetheris/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behaviour every backend must share.
func storeContract(t *testing.T, store storage.KeyValue) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing keys are omitted", func(t *testing.T) {
		record, err := store.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Empty(t, record)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, map[string][]byte{
			"aetheris_pomodoro": []byte(`{"mode":"work"}`),
			"aetheris_notes":    []byte(`"buy milk"`),
		}))

		record, err := store.Get(ctx, "aetheris_pomodoro", "aetheris_notes", "absent")
		require.NoError(t, err)
		assert.Len(t, record, 2)
		assert.Equal(t, `{"mode":"work"}`, string(record["aetheris_pomodoro"]))
		assert.Equal(t, `"buy milk"`, string(record["aetheris_notes"]))
	})

	t.Run("last writer wins", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, map[string][]byte{"aetheris_pomodoro": []byte(`{"mode":"break"}`)}))

		record, err := store.Get(ctx, "aetheris_pomodoro", "aetheris_notes")
		require.NoError(t, err)
		assert.Equal(t, `{"mode":"break"}`, string(record["aetheris_pomodoro"]))
		assert.Equal(t, `"buy milk"`, string(record["aetheris_notes"]), "unrelated keys survive")
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.Get(cancelled, "aetheris_pomodoro")
		assert.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, storage.NewMemoryStore())
}

func TestMemoryStore_StoresCopies(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	value := []byte("original")
	require.NoError(t, store.Set(ctx, map[string][]byte{"k": value}))
	value[0] = 'X'

	record, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(record["k"]))

	record["k"][0] = 'Y'
	again, _ := store.Get(ctx, "k")
	assert.Equal(t, "original", string(again["k"]))
}

func TestYAMLStore(t *testing.T) {
	storeContract(t, storage.NewYAMLStore(filepath.Join(t.TempDir(), "nested", storage.StateFileName)))
}

func TestYAMLStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), storage.StateFileName)
	ctx := context.Background()

	require.NoError(t, storage.NewYAMLStore(path).Set(ctx, map[string][]byte{"k": []byte("v")}))

	record, err := storage.NewYAMLStore(path).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(record["k"]))
}

func TestYAMLStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), storage.StateFileName)
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o644))

	_, err := storage.NewYAMLStore(path).Get(context.Background(), "k")
	assert.ErrorContains(t, err, "parse state yaml")
}

func TestSQLiteStore(t *testing.T) {
	store, err := storage.OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	storeContract(t, store)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", storage.DatabaseFileName)
	ctx := context.Background()

	store, err := storage.OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, map[string][]byte{"k": []byte("v1")}))
	require.NoError(t, store.Set(ctx, map[string][]byte{"k": []byte("v2")}))
	require.NoError(t, store.Close())

	reopened, err := storage.OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	record, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(record["k"]))
}

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()

	store, closeStore, err := storage.Open(model.StorageYAML, dir)
	require.NoError(t, err)
	assert.IsType(t, &storage.YAMLStore{}, store)
	require.NoError(t, closeStore())

	store, closeStore, err = storage.Open(model.StorageSQLite, dir)
	require.NoError(t, err)
	assert.IsType(t, &storage.SQLiteStore{}, store)
	require.NoError(t, closeStore())
	assert.FileExists(t, filepath.Join(dir, storage.DatabaseFileName))

	_, _, err = storage.Open("redis", dir)
	assert.ErrorContains(t, err, "unknown storage backend")
}
