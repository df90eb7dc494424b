package database

import (
	"bytes"
	"sync"
)

// MemoryStore keeps everything in a map. Update stages writes and only
// publishes them when fn succeeds.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) View(fn func(b Bucket) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memoryBucket{base: s.data})
}

func (s *MemoryStore) Update(fn func(b Bucket) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &memoryBucket{base: s.data, writes: map[string][]byte{}, deletes: map[string]bool{}}
	if err := fn(staged); err != nil {
		return err
	}
	for k := range staged.deletes {
		delete(s.data, k)
	}
	for k, v := range staged.writes {
		s.data[k] = v
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

type memoryBucket struct {
	base    map[string][]byte
	writes  map[string][]byte // nil for a read-only bucket
	deletes map[string]bool
}

func (b *memoryBucket) Get(key string) ([]byte, error) {
	if b.writes != nil {
		if v, ok := b.writes[key]; ok {
			return bytes.Clone(v), nil
		}
		if b.deletes[key] {
			return nil, nil
		}
	}
	v, ok := b.base[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (b *memoryBucket) Put(key string, value []byte) error {
	if b.writes == nil {
		return ErrReadOnly
	}
	delete(b.deletes, key)
	b.writes[key] = bytes.Clone(value)
	return nil
}

func (b *memoryBucket) Delete(key string) error {
	if b.writes == nil {
		return ErrReadOnly
	}
	delete(b.writes, key)
	b.deletes[key] = true
	return nil
}
