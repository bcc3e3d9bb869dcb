package domain

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrBlobNotFound is returned when a blob is not present in the repository.
var ErrBlobNotFound = errors.New("blob not found")

// BlobID is a content-derived identifier, typically a Crockford Base32 hash.
type BlobID string

// String returns the string representation of the BlobID.
func (id BlobID) String() string {
	return string(id)
}

// Blob is an opaque binary object, such as cached synthesized audio.
type Blob struct {
	ID   BlobID
	Body []byte
}

// NewBlob creates a new Blob with the given ID and content.
func NewBlob(id BlobID, body []byte) *Blob {
	return &Blob{
		ID:   id,
		Body: body,
	}
}

// Size returns the size of the blob's content in bytes.
func (blob *Blob) Size() int64 {
	return int64(len(blob.Body))
}

// Reader returns a reader over the blob's content.
func (blob *Blob) Reader() io.Reader {
	return bytes.NewReader(blob.Body)
}

// WriteTo writes the blob's content to the given writer.
func (blob *Blob) WriteTo(writer io.Writer) (int64, error) {
	n, err := writer.Write(blob.Body)
	if err != nil {
		return int64(n), fmt.Errorf("write: %w", err)
	}

	return int64(n), nil
}
