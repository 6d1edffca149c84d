// Package cache keeps hot catalog reads out of the database.
package cache

import "errors"

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")
