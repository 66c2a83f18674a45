package repos

import (
	"context"
	"sort"
	"sync"

	"productcatalog/internal/domain"
)

// MemoryStore keeps products in process memory. Ids are never reused, even
// after a delete.
type MemoryStore struct {
	mu     sync.RWMutex
	m      map[int64]domain.Product
	lastID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[int64]domain.Product)}
}

func (s *MemoryStore) Save(_ context.Context, p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		s.lastID++
		p.ID = s.lastID
	} else if p.ID > s.lastID {
		s.lastID = p.ID
	}
	s.m[p.ID] = clone(p)
	return clone(p), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (domain.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	if !ok {
		return domain.Product{}, false, nil
	}
	return clone(p), true, nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m[id]
	return ok, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// Len is used by tests to check that failed calls left the store alone.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// clone detaches the UpdatedAt pointer from the caller's copy.
func clone(p domain.Product) domain.Product {
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		p.UpdatedAt = &t
	}
	return p
}
