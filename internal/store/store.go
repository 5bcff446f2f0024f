package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is a string-keyed snapshot store. Values are whole documents; a Write
// replaces whatever was stored under the key before.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
