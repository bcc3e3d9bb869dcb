package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mkrupp/smart-interviewer/internal/domain"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

var ErrInvalidBlobID = errors.New("invalid blob id")

// shardWidth is the number of id characters per directory level.
const shardWidth = 2

// FileSystemBlobRepositoryConfig holds configuration for the filesystem-based blob repository.
type FileSystemBlobRepositoryConfig struct {
	// Basedir is the root directory for blob storage
	Basedir string `env:"BASEDIR" envDefault:"var/storage/blob"`

	// Fanout is the number of directory levels between the subdir and a blob,
	// each named after the next two characters of the blob id
	Fanout int `env:"FANOUT" envDefault:"2"`
}

// FileSystemBlobRepositoryFactory creates a factory function that returns a new FileSystemRepository.
// The factory function implements the RepositoryFactory type.
func FileSystemBlobRepositoryFactory(cfg FileSystemBlobRepositoryConfig) RepositoryFactory {
	return func(ctx context.Context, subdir string, ext string) (Repository, error) {
		return NewFileSystemBlobRepository(ctx, subdir, ext, cfg)
	}
}

// NewFileSystemBlobRepository creates the <basedir>/<subdir> directory and
// returns a repository storing blobs there as files with the given extension.
func NewFileSystemBlobRepository(
	ctx context.Context,
	subdir string,
	ext string,
	cfg FileSystemBlobRepositoryConfig,
) (repo *FileSystemRepository, err error) {
	repo = &FileSystemRepository{
		root:   filepath.Join(cfg.Basedir, subdir),
		ext:    strings.TrimPrefix(ext, "."),
		fanout: max(cfg.Fanout, 0),
		log: logging.GetLogger("repo.blob.filesystem_blob_repository").With(
			logging.Group("repo", "basedir", cfg.Basedir, "subdir", subdir, "ext", ext),
		),
	}

	defer func() {
		if err != nil {
			repo.log.ErrorContext(ctx, "init storage failed", "error", err)
		} else {
			repo.log.DebugContext(ctx, "init storage")
		}
	}()

	if err := os.MkdirAll(repo.root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir all: %w", err)
	}

	return repo, nil
}

// FileSystemRepository implements Repository on the local filesystem.
// Blobs are sharded into a directory tree by id prefix and replaced
// atomically by renaming a fully written temporary file into place.
// Locks are advisory flock(2) locks on a sibling ".lock" file.
type FileSystemRepository struct {
	root   string
	ext    string
	fanout int
	log    logging.Logger
}

var _ Repository = (*FileSystemRepository)(nil)

// Path returns the file a blob with the given id is stored in, e.g.
// speech/ab/cd/abcdef0123.mp3 for a fanout of 2.
func (r *FileSystemRepository) Path(id domain.BlobID) (string, error) {
	name := id.String()
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidBlobID, name)
	}

	parts := make([]string, 0, r.fanout+2)
	parts = append(parts, r.root)

	for level := range r.fanout {
		start := level * shardWidth
		if start+shardWidth > len(name) {
			break
		}

		parts = append(parts, name[start:start+shardWidth])
	}

	parts = append(parts, name+"."+r.ext)

	return filepath.Join(parts...), nil
}

// Lock implements Repository.Lock.
func (r *FileSystemRepository) Lock(ctx context.Context, id domain.BlobID, exclusive bool) (_ func(), err error) {
	path, err := r.Path(id)
	if err != nil {
		return nil, err
	}

	lockfile := path + ".lock"
	log := r.log.With(logging.Group("blob", "id", id, "lockfile", lockfile, "exclusive", exclusive))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "lock failed", "error", err)
		} else {
			log.DebugContext(ctx, "lock acquired")
		}
	}()

	if err := os.MkdirAll(filepath.Dir(lockfile), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir all: %w", err)
	}

	file, err := os.OpenFile(lockfile, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lockfile: %w", err)
	}

	how := syscall.LOCK_SH
	if exclusive {
		how = syscall.LOCK_EX
	}

	if err := syscall.Flock(int(file.Fd()), how); err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("flock: %w", err)
	}

	// the lockfile stays behind; removing it would race with waiting lockers
	return func() {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()

		log.DebugContext(ctx, "lock released")
	}, nil
}

// Exists implements Repository.Exists.
func (r *FileSystemRepository) Exists(_ context.Context, id domain.BlobID) bool {
	path, err := r.Path(id)
	if err != nil {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// Store implements Repository.Store.
func (r *FileSystemRepository) Store(ctx context.Context, blob *domain.Blob) (err error) {
	path, err := r.Path(blob.ID)
	if err != nil {
		return err
	}

	defer func() {
		log := r.log.With(logging.Group("blob", "id", blob.ID, "path", path))
		if err != nil {
			log.ErrorContext(ctx, "blob store failed", "error", err)
		} else {
			log.DebugContext(ctx, "blob stored", "size", blob.Size())
		}
	}()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir all: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := blob.WriteTo(tmp); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	committed = true

	return nil
}

// Fetch implements Repository.Fetch.
func (r *FileSystemRepository) Fetch(ctx context.Context, id domain.BlobID) (_ *domain.Blob, err error) {
	path, err := r.Path(id)
	if err != nil {
		return nil, err
	}

	defer func() {
		log := r.log.With(logging.Group("blob", "id", id, "path", path))

		switch {
		case errors.Is(err, domain.ErrBlobNotFound):
			log.DebugContext(ctx, "blob not found")
		case err != nil:
			log.ErrorContext(ctx, "blob fetch failed", "error", err)
		default:
			log.DebugContext(ctx, "blob fetched")
		}
	}()

	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Join(domain.ErrBlobNotFound, err)
	} else if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return domain.NewBlob(id, body), nil
}
