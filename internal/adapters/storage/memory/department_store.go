package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

type DepartmentStore struct {
	mu          sync.RWMutex
	nextID      domain.DepartmentID
	departments map[domain.DepartmentID]*domain.Department
	byName      map[string]domain.DepartmentID
}

func NewDepartmentStore() *DepartmentStore {
	return &DepartmentStore{
		departments: make(map[domain.DepartmentID]*domain.Department),
		byName:      make(map[string]domain.DepartmentID),
	}
}

var _ domain.DepartmentStore = (*DepartmentStore)(nil)

func (s *DepartmentStore) CreateDepartment(ctx context.Context, d *domain.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[d.Name]; exists {
		return fmt.Errorf("department %q already exists", d.Name)
	}

	s.nextID++
	d.ID = s.nextID
	cp := *d
	s.departments[d.ID] = &cp
	s.byName[d.Name] = d.ID
	return nil
}

func (s *DepartmentStore) GetDepartment(ctx context.Context, id domain.DepartmentID) (*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.departments[id]
	if !ok {
		return nil, fmt.Errorf("department %d: %w", id, domain.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (s *DepartmentStore) GetDepartmentByName(ctx context.Context, name string) (*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("department %q: %w", name, domain.ErrNotFound)
	}
	cp := *s.departments[id]
	return &cp, nil
}

// ListDepartments returns departments ordered by name.
func (s *DepartmentStore) ListDepartments(ctx context.Context) ([]*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Department, 0, len(s.departments))
	for _, d := range s.departments {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
