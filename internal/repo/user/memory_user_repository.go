package user

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

// MemoryUserRepository implements Repository in process memory.
// Contents are lost when the process exits.
type MemoryUserRepository struct {
	users map[string]domain.User
	m     *sync.RWMutex
}

var _ Repository = (*MemoryUserRepository)(nil)

// MemoryUserRepositoryFactory creates a factory function that returns a new MemoryUserRepository.
func MemoryUserRepositoryFactory() RepositoryFactory {
	return func(context.Context) (Repository, error) {
		return NewMemoryUserRepository(), nil
	}
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]domain.User),
		m:     new(sync.RWMutex),
	}
}

// FindByEmail implements Repository.FindByEmail.
func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, bool, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, false, nil
	}

	return &user, true, nil
}

// CreateUser implements Repository.CreateUser.
func (r *MemoryUserRepository) CreateUser(_ context.Context, user *domain.User) error {
	r.m.Lock()
	defer r.m.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.users[key]; exists {
		return fmt.Errorf("create user: %w", domain.ErrUserAlreadyExists)
	}

	r.users[key] = *user

	return nil
}

// EnsureExists implements Repository.EnsureExists.
func (r *MemoryUserRepository) EnsureExists(context.Context) error {
	return nil
}

// Close implements Repository.Close.
func (r *MemoryUserRepository) Close() error {
	return nil
}
