// Package cache persists building metadata by address key. Entries are written
// once and never updated: the first resolution for a key wins.
package cache

import (
	"context"

	"github.com/sdko-org/vertical-padding/internal/addresskey"
	"github.com/sdko-org/vertical-padding/internal/padding"
)

// Store maps address keys to building metadata.
type Store interface {
	// Get returns the metadata for key and whether it was found.
	Get(ctx context.Context, key addresskey.Key) (padding.BuildingMetadata, bool, error)
	// PutIfAbsent stores meta unless key already has an entry, and returns the
	// entry that is stored once the call completes.
	PutIfAbsent(ctx context.Context, key addresskey.Key, meta padding.BuildingMetadata) (padding.BuildingMetadata, error)
}
