package seed

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/natsclient"
)

// KVStore persists seeds in a NATS JetStream KV bucket, letting a
// restarted process recover its engine from the cluster.
type KVStore struct {
	bucket *natsclient.KVBucket
}

// NewKVStore opens (or creates) the named bucket on the client.
func NewKVStore(ctx context.Context, client *natsclient.Client, bucket string) (*KVStore, error) {
	kv, err := client.KVBucket(ctx, bucket)
	if err != nil {
		return nil, err
	}
	return &KVStore{bucket: kv}, nil
}

// Save writes the encoded seed under the key.
func (ks *KVStore) Save(ctx context.Context, key string, s Seed) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}
	return ks.bucket.Put(ctx, key, data)
}

// Load reads and validates a seed. A missing key maps to ErrSeedNotFound.
func (ks *KVStore) Load(ctx context.Context, key string) (Seed, error) {
	data, err := ks.bucket.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, natsclient.ErrKeyNotFound) {
			return Seed{}, fmt.Errorf("key %s: %w", key, errors.ErrSeedNotFound)
		}
		return Seed{}, err
	}
	return Decode(data)
}
