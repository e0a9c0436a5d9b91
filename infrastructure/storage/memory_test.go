package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formul8/orchestra/internal/ports"
)

type testDoc struct {
	Name  string `json:"name"`
	Score float64 `json:"score"`
}

func TestMemoryStoreDocumentRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "docs", "a", testDoc{Name: "alpha", Score: 90}))

	var got testDoc
	require.NoError(t, store.Get(ctx, "docs", "a", &got))
	assert.Equal(t, testDoc{Name: "alpha", Score: 90}, got)

	// Missing keys are a typed error callers can branch on.
	err := store.Get(ctx, "docs", "missing", &got)
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)

	// Same key in a different collection is a different document.
	err = store.Get(ctx, "other", "a", &got)
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := testDoc{Name: "alpha"}
	require.NoError(t, store.Put(ctx, "docs", "a", &original))
	original.Name = "mutated"

	var got testDoc
	require.NoError(t, store.Get(ctx, "docs", "a", &got))
	assert.Equal(t, "alpha", got.Name, "stored value is isolated from caller mutation")
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "docs", "a", testDoc{Name: "alpha"}))
	require.NoError(t, store.AppendToList(ctx, "docs", "a", testDoc{Name: "entry"}, 0))

	require.NoError(t, store.Delete(ctx, "docs", "a"))

	var got testDoc
	assert.ErrorIs(t, store.Get(ctx, "docs", "a", &got), ports.ErrKeyNotFound)

	var list []testDoc
	require.NoError(t, store.GetList(ctx, "docs", "a", &list))
	assert.Empty(t, list, "delete removes the list under the same key")

	// Deleting an absent key is a no-op.
	assert.NoError(t, store.Delete(ctx, "docs", "missing"))
}

func TestMemoryStoreListKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "docs", "a", testDoc{}))
	require.NoError(t, store.Put(ctx, "docs", "b", testDoc{}))
	require.NoError(t, store.Put(ctx, "other", "c", testDoc{}))

	keys, err := store.ListKeys(ctx, "docs")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	keys, err = store.ListKeys(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryStoreAppendEvictsOldest(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, store.AppendToList(ctx, "runs", "r", testDoc{Name: fmt.Sprintf("run-%d", i)}, 3))
	}

	var list []testDoc
	require.NoError(t, store.GetList(ctx, "runs", "r", &list))
	require.Len(t, list, 3)
	assert.Equal(t, "run-2", list[0].Name, "oldest entries are evicted first")
	assert.Equal(t, "run-4", list[2].Name)
}

func TestMemoryStoreGetListMissingKey(t *testing.T) {
	store := NewMemoryStore()

	var list []testDoc
	require.NoError(t, store.GetList(context.Background(), "runs", "missing", &list))
	assert.Empty(t, list, "a missing list reads as empty, not as an error")
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.AppendToList(ctx, "runs", "r", testDoc{Name: fmt.Sprintf("run-%d", n)}, 10)
		}(i)
	}
	wg.Wait()

	var list []testDoc
	require.NoError(t, store.GetList(ctx, "runs", "r", &list))
	assert.Len(t, list, 10, "append-and-evict stays atomic under concurrency")
}
