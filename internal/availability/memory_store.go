package availability

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type memoryEntry struct {
	value     *domain.Availability
	expiresAt time.Time
}

// MemoryStore хранилище в памяти процесса
// ttl <= 0 - без истечения, записи живут до инвалидации
type MemoryStore struct {
	mu           sync.RWMutex
	entries      map[string]memoryEntry
	ttl          time.Duration
	timeProvider TimeProvider
}

// NewMemoryStore создает хранилище в памяти
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries:      make(map[string]memoryEntry),
		ttl:          ttl,
		timeProvider: &RealTimeProvider{},
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*domain.Availability, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !s.timeProvider.Now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value *domain.Availability) error {
	entry := memoryEntry{value: value}
	if s.ttl > 0 {
		entry.expiresAt = s.timeProvider.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	return nil
}

// Len количество записей
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
