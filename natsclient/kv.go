package natsclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/pkg/retry"
)

// KVOptions configures KV operation behavior
type KVOptions struct {
	Timeout time.Duration // Per-operation timeout
	Retry   retry.Config  // Backoff for transient failures
}

// DefaultKVOptions returns sensible defaults for seed persistence
func DefaultKVOptions() KVOptions {
	return KVOptions{
		Timeout: 5 * time.Second,
		Retry:   retry.DefaultConfig(),
	}
}

// KVBucket provides Get/Put over one JetStream KV bucket with retries
// around transient failures.
type KVBucket struct {
	bucket  jetstream.KeyValue
	options KVOptions
}

// KVBucket opens (or creates) a KV bucket. Creation is idempotent: an
// existing bucket is reused.
func (c *Client) KVBucket(ctx context.Context, name string, opts ...func(*KVOptions)) (*KVBucket, error) {
	options := DefaultKVOptions()
	for _, opt := range opts {
		opt(&options)
	}

	bucket, err := retry.DoWithResult(ctx, options.Retry, func() (jetstream.KeyValue, error) {
		kv, err := c.js.KeyValue(ctx, name)
		if err == nil {
			return kv, nil
		}
		if stderrors.Is(err, jetstream.ErrBucketNotFound) {
			return c.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: name})
		}
		return nil, err
	})
	if err != nil {
		return nil, errors.WrapTransient(
			fmt.Errorf("bucket %s: %w", name, err),
			"Client", "KVBucket", "bucket open")
	}

	return &KVBucket{bucket: bucket, options: options}, nil
}

func (kv *KVBucket) applyTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if kv.options.Timeout > 0 {
		return context.WithTimeout(ctx, kv.options.Timeout)
	}
	return ctx, func() {}
}

// Get retrieves a value. A missing key returns ErrKeyNotFound.
func (kv *KVBucket) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := kv.applyTimeout(ctx)
	defer cancel()

	entry, err := retry.DoWithResult(ctx, kv.options.Retry, func() (jetstream.KeyValueEntry, error) {
		e, err := kv.bucket.Get(ctx, key)
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, retry.NonRetryable(err)
		}
		return e, err
	})
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, errors.WrapTransient(
			fmt.Errorf("kv get %s: %w", key, err),
			"KVBucket", "Get", "kv read")
	}
	return entry.Value(), nil
}

// Put creates or updates a key, last writer wins.
func (kv *KVBucket) Put(ctx context.Context, key string, value []byte) error {
	ctx, cancel := kv.applyTimeout(ctx)
	defer cancel()

	err := retry.Do(ctx, kv.options.Retry, func() error {
		_, err := kv.bucket.Put(ctx, key, value)
		return err
	})
	if err != nil {
		return errors.WrapTransient(
			fmt.Errorf("kv put %s: %w", key, err),
			"KVBucket", "Put", "kv write")
	}
	return nil
}

// ErrKeyNotFound marks a missing KV key.
var ErrKeyNotFound = stderrors.New("kv key not found")
