// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache provides a small expiring key/value abstraction.

Two implementations exist:

  - [Memory]: (key) -> (value, expiry) entries in process memory, with an
    injected clock so tests control time and each instance is isolated.
  - [Redis]: the same contract backed by Redis with native TTLs, shared by
    every API instance.

Values are opaque bytes; callers own the encoding.
*/
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache is the contract shared by the in-process and Redis implementations.
type Cache interface {
	// Get returns the stored value, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl. A non-positive ttl is a no-op.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Clock returns the current time. [time.Now] in production.
type Clock func() time.Time
