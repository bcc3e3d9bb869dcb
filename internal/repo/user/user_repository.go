package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

// ErrUnknownBackend is returned when the configured storage backend does not exist.
var ErrUnknownBackend = errors.New("unknown user repository backend")

// Repository defines the interface for user data persistence.
type Repository interface {
	// FindByEmail retrieves a user by email, compared case-insensitively.
	// Returns the user object and true if found, or nil and false if not found.
	// Returns an error if the operation fails.
	FindByEmail(ctx context.Context, email string) (*domain.User, bool, error)

	// CreateUser adds a new user to the repository.
	// The uniqueness check and the write are atomic with respect to other writers.
	// Returns ErrUserAlreadyExists if the email is already taken.
	CreateUser(ctx context.Context, user *domain.User) error

	// EnsureExists creates the backing storage with an empty user set if absent.
	EnsureExists(ctx context.Context) error

	// Close releases any resources held by the repository.
	// Returns an error if cleanup fails.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func(ctx context.Context) (Repository, error)

// RepositoryConfig selects and configures the user storage backend.
type RepositoryConfig struct {
	// Backend is one of "json", "sqlite" or "memory"
	Backend string `env:"BACKEND" envDefault:"json"`

	JSON   JSONUserRepositoryConfig
	SQLite SQLiteUserRepositoryConfig
}

// NewRepositoryFactory returns the factory of the configured backend.
func NewRepositoryFactory(cfg RepositoryConfig) (RepositoryFactory, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "json":
		return JSONUserRepositoryFactory(cfg.JSON), nil
	case "sqlite":
		return SQLiteUserRepositoryFactory(cfg.SQLite), nil
	case "memory":
		return MemoryUserRepositoryFactory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
