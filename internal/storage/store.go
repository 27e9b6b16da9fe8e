package storage

import (
	"context"
	"errors"
	"unicode/utf16"
)

// ErrQuotaExceeded is returned by Set when a write would push the store past
// its capacity. Callers must treat it as "storage full", never as data loss.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is the raw string key-value persistence primitive. Implementations
// have finite capacity and report it through Set.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes key=value, returning ErrQuotaExceeded when capacity is hit.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys lists stored keys with the given prefix ("" for all).
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// EntrySize returns the size in bytes of one stored entry, counting UTF-16
// code units times two, matching how browser local storage is billed.
func EntrySize(key, value string) int {
	return 2 * (len(utf16.Encode([]rune(key))) + len(utf16.Encode([]rune(value))))
}
