package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"clausevault/model"

	"github.com/google/uuid"
)

// UserStore persists user accounts. Emails are unique across all users.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	UpdateSettings(ctx context.Context, id, name, aiModel string) (*model.User, error)
}

// ContractStore persists contract records keyed by owner.
type ContractStore interface {
	CreateContract(ctx context.Context, contract *model.Contract) error
	ContractsByOwner(ctx context.Context, owner string) ([]*model.Contract, error)
	ContractByOwner(ctx context.Context, id, owner string) (*model.Contract, error)
	// DeleteByOwner removes the contract only if owned by the caller.
	// Deleting a missing or foreign-owned id is a silent no-op.
	DeleteByOwner(ctx context.Context, id, owner string) error
	UpdateInsights(ctx context.Context, id, insights string) error
}

// Store combines both persistence concerns behind one backend.
type Store interface {
	UserStore
	ContractStore
}

// MemoryStore is an in-memory Store used for tests and single-node dev
// runs. Every write touches exactly one record under the lock.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*model.User
	contracts map[string]*model.Contract
	seq       map[string]int // insertion order tiebreak for equal timestamps
	nextSeq   int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*model.User),
		contracts: make(map[string]*model.Contract),
		seq:       make(map[string]int),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) UpdateSettings(_ context.Context, id, name, aiModel string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Name = name
	u.AIModel = aiModel
	u.UpdatedAt = time.Now()

	copied := *u
	return &copied, nil
}

func (s *MemoryStore) CreateContract(_ context.Context, contract *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contract.ID == "" {
		contract.ID = uuid.New().String()
	}
	now := time.Now()
	contract.CreatedAt = now
	contract.UpdatedAt = now

	stored := *contract
	s.contracts[contract.ID] = &stored
	s.seq[contract.ID] = s.nextSeq
	s.nextSeq++
	return nil
}

// ContractsByOwner returns the owner's contracts, newest-created first.
func (s *MemoryStore) ContractsByOwner(_ context.Context, owner string) ([]*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Contract
	for _, c := range s.contracts {
		if c.Owner == owner {
			copied := *c
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return s.seq[result[i].ID] > s.seq[result[j].ID]
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (s *MemoryStore) ContractByOwner(_ context.Context, id, owner string) (*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok || c.Owner != owner {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *MemoryStore) DeleteByOwner(_ context.Context, id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.contracts[id]; ok && c.Owner == owner {
		delete(s.contracts, id)
		delete(s.seq, id)
	}
	return nil
}

func (s *MemoryStore) UpdateInsights(_ context.Context, id, insights string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.contracts[id]; ok {
		c.AIInsights = insights
		c.UpdatedAt = time.Now()
	}
	return nil
}

// Count returns the number of stored contracts.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}
