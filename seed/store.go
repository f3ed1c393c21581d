package seed

import (
	"context"
)

// Store persists seeds by key. The engine core never touches a store
// directly; checkpointing and recovery belong to the hosting service.
// Transient failure modes are the store's, not the seed's: a Load that
// finds corrupt bytes surfaces ErrCorruptSeed, a missing key surfaces
// ErrSeedNotFound.
type Store interface {
	Save(ctx context.Context, key string, s Seed) error
	Load(ctx context.Context, key string) (Seed, error)
}
