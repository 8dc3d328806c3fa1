// Package kv defines the key-value persistence port used by pressroom's
// content and session stores, along with memory, SQLite and Redis backends.
//
// Every value is an opaque blob written in one piece. Callers serialize the
// complete next state before calling Put, so a failed write never leaves a
// half-written value behind.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no value is stored under the key.
	ErrNotFound = errors.New("kv: key not found")

	// ErrQuotaExceeded is returned by Put when the value would exceed the
	// backend's configured capacity.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
)

// Backend stores opaque blobs by key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
