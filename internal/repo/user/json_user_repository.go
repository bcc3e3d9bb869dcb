package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

// JSONUserRepositoryConfig holds configuration for the JSON file user repository.
type JSONUserRepositoryConfig struct {
	// Path is the JSON file holding the array of user records
	Path string `env:"JSON_PATH" envDefault:"var/storage/users.json"`
}

// JSONUserRepository implements Repository on a single JSON array file.
// The file is read fully and rewritten fully on each mutation. Writers are
// serialized by a process mutex and an advisory lock on a sibling lock file,
// and replace the file atomically.
type JSONUserRepository struct {
	path string
	log  logging.Logger
	m    *sync.Mutex
}

var _ Repository = (*JSONUserRepository)(nil)

// JSONUserRepositoryFactory creates a factory function that returns a new JSONUserRepository.
// The factory function implements the RepositoryFactory type.
func JSONUserRepositoryFactory(cfg JSONUserRepositoryConfig) RepositoryFactory {
	return func(ctx context.Context) (Repository, error) {
		return NewJSONUserRepository(ctx, cfg)
	}
}

// NewJSONUserRepository creates a new JSONUserRepository and ensures its file exists.
func NewJSONUserRepository(ctx context.Context, cfg JSONUserRepositoryConfig) (*JSONUserRepository, error) {
	repo := &JSONUserRepository{
		path: cfg.Path,
		log: logging.GetLogger("repo.user.json_user_repository").With(
			logging.Group("repo", "path", cfg.Path),
		),
		m: new(sync.Mutex),
	}

	if err := repo.EnsureExists(ctx); err != nil {
		return nil, fmt.Errorf("init repo: %w", err)
	}

	return repo, nil
}

// EnsureExists implements Repository.EnsureExists.
func (r *JSONUserRepository) EnsureExists(ctx context.Context) (err error) {
	r.m.Lock()
	defer r.m.Unlock()

	release, err := r.flock(ctx, syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer release()

	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat: %w", err)
	}

	if err := r.writeAll([]domain.User{}); err != nil {
		return err
	}

	r.log.InfoContext(ctx, "user store created")

	return nil
}

// FindByEmail implements Repository.FindByEmail.
func (r *JSONUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	release, err := r.flock(ctx, syscall.LOCK_SH)
	if err != nil {
		return nil, false, err
	}
	defer release()

	users, err := r.readAll()
	if err != nil {
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	if user, ok := findByEmail(users, email); ok {
		return &user, true, nil
	}

	return nil, false, nil
}

// CreateUser implements Repository.CreateUser.
func (r *JSONUserRepository) CreateUser(ctx context.Context, user *domain.User) (err error) {
	defer func() {
		log := r.log.With(logging.Group("user", "id", user.ID))
		if err != nil {
			log.WarnContext(ctx, "create user failed", "error", err)
		} else {
			log.DebugContext(ctx, "user created")
		}
	}()

	r.m.Lock()
	defer r.m.Unlock()

	release, err := r.flock(ctx, syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer release()

	users, err := r.readAll()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if _, exists := findByEmail(users, user.Email); exists {
		return fmt.Errorf("create user: %w", domain.ErrUserAlreadyExists)
	}

	if err := r.writeAll(append(users, *user)); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Close implements Repository.Close.
func (r *JSONUserRepository) Close() error {
	return nil
}

func findByEmail(users []domain.User, email string) (domain.User, bool) {
	for _, user := range users {
		if strings.EqualFold(user.Email, email) {
			return user, true
		}
	}

	return domain.User{}, false
}

func (r *JSONUserRepository) readAll() ([]domain.User, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return users, nil
}

func (r *JSONUserRepository) writeAll(users []domain.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir all: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write: %w", err)
	} else if err := tmp.Sync(); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("sync: %w", err)
	} else if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

func (r *JSONUserRepository) flock(ctx context.Context, mode int) (release func(), err error) {
	lockfile := r.path + ".lock"

	defer func() {
		if err != nil {
			r.log.ErrorContext(ctx, "lock failed", "lockfile", lockfile, "error", err)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(lockfile), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir all: %w", err)
	}

	file, err := os.OpenFile(lockfile, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), mode); err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("flock: %w", err)
	}

	return func() {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
	}, nil
}
