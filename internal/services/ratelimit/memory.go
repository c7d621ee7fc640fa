package ratelimit

import (
	"context"
	"sync"
)

type memoryStore struct {
	usage map[string]int
	mutex sync.Mutex
}

// NewMemoryStore keeps counters in process memory. Counters are lost on restart.
func NewMemoryStore() CounterStore {
	return &memoryStore{usage: make(map[string]int)}
}

func (s *memoryStore) Consume(_ context.Context, key string, quota int) (int, bool, error) {
	k := counterKey(key)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	used := s.usage[k]
	if used >= quota {
		return used, false, nil
	}
	used++
	s.usage[k] = used
	return used, true, nil
}

func (s *memoryStore) Usage(_ context.Context, key string) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.usage[counterKey(key)], nil
}

func (s *memoryStore) Name() string { return "memory" }

func (s *memoryStore) HealthCheck(context.Context) error { return nil }

func (s *memoryStore) Close() error { return nil }
