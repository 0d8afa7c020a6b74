// Package storage defines the key-value collaborator shared by the
// availability and secret-santa subsystems, together with four
// interchangeable backends: in-memory, JSON file, Redis and Postgres.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get and HGet when the key or hash
// field does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Store is a minimal string/hash/set store. Each method maps 1:1 onto
// a Redis command; the other backends emulate the same semantics.
// Single-key operations are atomic, multi-key sequences are not.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key, field, value string) error
	HDel(ctx context.Context, key string, fields ...string) error
	HVals(ctx context.Context, key string) ([]string, error)
	HLen(ctx context.Context, key string) (int64, error)

	SAdd(ctx context.Context, key, member string) error
	SRem(ctx context.Context, key, member string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SCard(ctx context.Context, key string) (int64, error)
}
