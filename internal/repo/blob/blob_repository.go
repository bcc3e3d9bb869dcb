package blob

import (
	"context"

	"github.com/mkrupp/smart-interviewer/internal/domain"
)

// Repository defines the interface for blob storage operations.
type Repository interface {
	// Lock acquires a lock on the blob with the given ID.
	// If exclusive is true, acquires a write lock, otherwise a read lock.
	// Returns a function to release the lock, and any error encountered.
	Lock(ctx context.Context, id domain.BlobID, exclusive bool) (func(), error)

	// Exists checks if a blob with the given ID exists.
	Exists(ctx context.Context, id domain.BlobID) bool

	// Store persists a blob in the repository.
	// Returns an error if the operation fails.
	Store(ctx context.Context, blob *domain.Blob) error

	// Fetch retrieves a blob by its ID.
	// Returns ErrBlobNotFound if the blob does not exist, or an error if retrieval fails.
	Fetch(ctx context.Context, id domain.BlobID) (*domain.Blob, error)
}

// RepositoryFactory is a function that creates a new Repository instance.
// Parameters:
// - name: subdirectory name for the repository, e.g. "speech"
// - ext: file extension for stored blobs, e.g. "mp3"
// Returns an error if initialization fails.
type RepositoryFactory func(
	ctx context.Context,
	name string,
	ext string,
) (Repository, error)
