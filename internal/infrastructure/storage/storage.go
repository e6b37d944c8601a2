// Package storage keeps the ledger's audit archive in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when a key does not exist
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the subset of object storage the archive needs
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the keys under prefix in lexical order
	List(ctx context.Context, prefix string) ([]string, error)
}
