package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

type memoryEntry struct {
	val     []byte
	expires time.Time
}

// MemoryStore 进程内缓存, 用于单实例部署和测试
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	gens    map[string]int64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		gens:    make(map[string]int64),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.mu.Lock()
		// 重新检查, 期间可能已被覆盖
		if cur, ok := s.entries[key]; ok && cur.expires.Equal(e.expires) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(e.val))
	copy(out, e.val)
	return out, true, nil
}

func (s *MemoryStore) entry(val []byte, ttl time.Duration) memoryEntry {
	e := memoryEntry{val: make([]byte, len(val))}
	copy(e.val, val)
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	return e
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := s.entry(val, ttl)
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Generation(_ context.Context, genKey string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gens[genKey], nil
}

func (s *MemoryStore) Bump(_ context.Context, genKey string) error {
	s.mu.Lock()
	s.gens[genKey]++
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SetIfGeneration(_ context.Context, key string, val []byte, ttl time.Duration, genKey string, gen int64) (bool, error) {
	e := s.entry(val, ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[genKey] != gen {
		return false, nil
	}
	s.entries[key] = e
	return true, nil
}

func (s *MemoryStore) Evict(_ context.Context, pattern string) (int64, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for key := range s.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) EvictAll(ctx context.Context, namespace string) (int64, error) {
	return s.Evict(ctx, namespacePattern(namespace))
}

// Len 当前条目数, 包含尚未清理的过期条目
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
