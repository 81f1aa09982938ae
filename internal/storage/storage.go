// Package storage contains the storage abstraction saved snippets are written
// through, with a local filesystem backend and an S3-compatible backend.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectExists is returned by Put when IfNotExists is set and the key is taken.
var ErrObjectExists = errors.New("object already exists")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
	// IfNotExists makes Put fail with ErrObjectExists instead of overwriting.
	IfNotExists bool
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Location     string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object storage interface used by the snippet service.
type Storage interface {
	// Put writes an object under key from r. A failed Put leaves no
	// partially written object under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}
