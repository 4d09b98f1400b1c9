// Package cache stores computed results keyed by a hash of their validated
// input. Backends are interchangeable; a miss is never an error.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// SchemaVersion is part of every key. Increment it when a cached result's
// shape changes so old entries are never decoded.
const SchemaVersion = "1"

// Cache is a byte-oriented result store
type Cache interface {
	// Get returns (nil, false, nil) on a miss
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Key derives a stable key from the operation kind, the engine's term bound
// and the validated request. Requests with equal values hash equally.
func Key(kind string, maxTermMonths int, request any) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.New()
	fmt.Fprintf(sum, "%s|%d|", kind, maxTermMonths)
	sum.Write(payload)
	return fmt.Sprintf("mortgo:v%s:%s:%s", SchemaVersion, kind, hex.EncodeToString(sum.Sum(nil))), nil
}
