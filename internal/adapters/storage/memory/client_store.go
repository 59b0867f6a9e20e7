package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PabloGalante/intake-agent/internal/domain"
)

type ClientStore struct {
	mu      sync.RWMutex
	nextID  domain.ClientID
	clients map[domain.ClientID]*domain.Client
	byEmail map[string]domain.ClientID
}

func NewClientStore() *ClientStore {
	return &ClientStore{
		clients: make(map[domain.ClientID]*domain.Client),
		byEmail: make(map[string]domain.ClientID),
	}
}

var _ domain.ClientStore = (*ClientStore)(nil)

func (s *ClientStore) CreateClient(ctx context.Context, c *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(c.Email)
	if _, exists := s.byEmail[key]; exists {
		return fmt.Errorf("client with email %q: %w", c.Email, domain.ErrAlreadyExists)
	}

	s.nextID++
	c.ID = s.nextID
	s.clients[c.ID] = cloneClient(c)
	s.byEmail[key] = c.ID
	return nil
}

func (s *ClientStore) GetClient(ctx context.Context, id domain.ClientID) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	return cloneClient(c), nil
}

func (s *ClientStore) GetClientByEmail(ctx context.Context, email string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, fmt.Errorf("client %q: %w", email, domain.ErrNotFound)
	}
	return cloneClient(s.clients[id]), nil
}

func (s *ClientStore) AddClientDepartment(ctx context.Context, id domain.ClientID, dept domain.DepartmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	if !c.HasDepartment(dept) {
		c.DepartmentIDs = append(c.DepartmentIDs, dept)
	}
	return nil
}

func cloneClient(c *domain.Client) *domain.Client {
	cp := *c
	cp.DepartmentIDs = append([]domain.DepartmentID(nil), c.DepartmentIDs...)
	return &cp
}

// Emails are matched case-insensitively.
func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
