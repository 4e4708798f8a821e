package credstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// saltKey holds the KDF salt shared by every device using the same prefix.
const saltKey = "__salt"

// RedisStore keeps sealed credentials in Redis under a per-device prefix. It
// serves shared terminals whose session must follow the operator between
// machines.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	sealer *Sealer
}

// NewRedisStore builds a store. The sealer may be nil to store plaintext.
func NewRedisStore(client redis.UniversalClient, prefix string, sealer *Sealer) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, sealer: sealer}
}

// OpenRedisStore builds a sealed store keyed by passphrase. The salt lives in
// Redis next to the entries; the first device to connect creates it.
func OpenRedisStore(ctx context.Context, client redis.UniversalClient, prefix, passphrase string, params KDFParams) (*RedisStore, error) {
	if passphrase == "" {
		return nil, errors.New("credstore: redis backend requires a passphrase")
	}

	fresh, err := NewSalt()
	if err != nil {
		return nil, err
	}
	if err := client.SetNX(ctx, prefix+saltKey, base64.StdEncoding.EncodeToString(fresh), 0).Err(); err != nil {
		return nil, fmt.Errorf("redis salt: %w", err)
	}
	encoded, err := client.Get(ctx, prefix+saltKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis salt: %w", err)
	}
	salt, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: redis salt: %v", ErrCorrupt, err)
	}

	sealer, err := NewSealer([]byte(passphrase), salt, params)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(client, prefix, sealer), nil
}

// Get returns the unsealed value for key or ErrNotFound.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	if r.sealer == nil {
		return raw, nil
	}
	return r.sealer.Open(key, raw)
}

// Set stores value under key with no expiry, sealed when a sealer is set.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if r.sealer != nil {
		sealed, err := r.sealer.Seal(key, value)
		if err != nil {
			return err
		}
		value = sealed
	}
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
