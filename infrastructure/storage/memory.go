// Package storage provides DocumentStore implementations: an in-memory
// store for tests and single-node deployments, and a Redis-backed store
// for shared deployments.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/formul8/orchestra/internal/ports"
)

var _ ports.DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory DocumentStore. Documents round-trip
// through JSON so stored values are isolated from caller mutations and
// behave identically to a real backend. A single RWMutex serializes
// writers, which satisfies the single-writer-per-key policy.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]json.RawMessage
	lists map[string][]json.RawMessage
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  map[string]json.RawMessage{},
		lists: map[string][]json.RawMessage{},
	}
}

func storageKey(collection, key string) string { return collection + "/" + key }

// Get loads the document at collection/key into out.
func (s *MemoryStore) Get(_ context.Context, collection, key string, out any) error {
	s.mu.RLock()
	raw, ok := s.docs[storageKey(collection, key)]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s/%s", ports.ErrKeyNotFound, collection, key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s/%s: %w", collection, key, err)
	}
	return nil
}

// Put stores the document at collection/key.
func (s *MemoryStore) Put(_ context.Context, collection, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, key, err)
	}

	s.mu.Lock()
	s.docs[storageKey(collection, key)] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes the document and any list at collection/key.
func (s *MemoryStore) Delete(_ context.Context, collection, key string) error {
	s.mu.Lock()
	delete(s.docs, storageKey(collection, key))
	delete(s.lists, storageKey(collection, key))
	s.mu.Unlock()
	return nil
}

// ListKeys returns all document keys in the collection.
func (s *MemoryStore) ListKeys(_ context.Context, collection string) ([]string, error) {
	prefix := collection + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.docs {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k[len(prefix):])
		}
	}
	return keys, nil
}

// AppendToList appends value and evicts oldest entries beyond maxLen,
// atomically under the store lock.
func (s *MemoryStore) AppendToList(_ context.Context, collection, key string, value any, maxLen int) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := storageKey(collection, key)
	list := append(s.lists[k], raw)
	if maxLen > 0 && len(list) > maxLen {
		list = list[len(list)-maxLen:]
	}
	s.lists[k] = list
	return nil
}

// GetList loads the list at collection/key into out, oldest first. A
// missing key yields an empty list.
func (s *MemoryStore) GetList(_ context.Context, collection, key string, out any) error {
	s.mu.RLock()
	list := s.lists[storageKey(collection, key)]
	encoded := make([]json.RawMessage, len(list))
	copy(encoded, list)
	s.mu.RUnlock()

	combined, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("encoding list %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal(combined, out); err != nil {
		return fmt.Errorf("decoding list %s/%s: %w", collection, key, err)
	}
	return nil
}
