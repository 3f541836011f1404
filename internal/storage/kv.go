// ABOUTME: Key-value implementation of Store: one JSON document per record under a type prefix.
// ABOUTME: Any Bucket (memory, Badger, Charm) can back it.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/healthlife/internal/models"
)

// Key prefixes for each record type.
const (
	HydrationPrefix   = "hydration:"
	GymPrefix         = "gym:"
	MeasurementPrefix = "measurement:"
	CredentialPrefix  = "credential:"
)

// Bucket is a flat byte key-value store.
// Get returns ErrNotFound for a missing key.
type Bucket interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
	Close() error
}

// KVStore implements Store on a Bucket.
type KVStore[T models.Record] struct {
	bucket Bucket
	prefix string
}

// NewKVStore creates a store for records kept under prefix.
func NewKVStore[T models.Record](bucket Bucket, prefix string) *KVStore[T] {
	return &KVStore[T]{bucket: bucket, prefix: prefix}
}

func (s *KVStore[T]) key(rec T) string {
	return s.prefix + rec.RecordID().String()
}

// Insert stores a new record.
func (s *KVStore[T]) Insert(rec T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", strings.TrimSuffix(s.prefix, ":"), err)
	}
	if err := s.bucket.Set(s.key(rec), data); err != nil {
		return fmt.Errorf("insert %s: %w", strings.TrimSuffix(s.prefix, ":"), err)
	}
	return nil
}

// Update overwrites an existing record.
func (s *KVStore[T]) Update(rec T) error {
	if _, err := s.bucket.Get(s.key(rec)); err != nil {
		return fmt.Errorf("update %s %s: %w", strings.TrimSuffix(s.prefix, ":"), rec.RecordID(), err)
	}
	return s.Insert(rec)
}

// Delete removes a record.
func (s *KVStore[T]) Delete(rec T) error {
	key := s.key(rec)
	if _, err := s.bucket.Get(key); err != nil {
		return fmt.Errorf("delete %s %s: %w", strings.TrimSuffix(s.prefix, ":"), rec.RecordID(), err)
	}
	if err := s.bucket.Delete(key); err != nil {
		return fmt.Errorf("delete %s: %w", strings.TrimSuffix(s.prefix, ":"), err)
	}
	return nil
}

// Fetch decodes every record under the prefix and applies q in memory.
// A value that fails to decode fails the fetch.
func (s *KVStore[T]) Fetch(q Query) ([]T, error) {
	keys, err := s.bucket.Keys(s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", strings.TrimSuffix(s.prefix, ":"), err)
	}

	records := make([]T, 0, len(keys))
	for _, key := range keys {
		data, err := s.bucket.Get(key)
		if errors.Is(err, ErrNotFound) {
			// Deleted between Keys and Get.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		rec, err := unmarshalJSON[T](data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		records = append(records, rec)
	}
	return ApplyQuery(records, q), nil
}

// unmarshalJSON decodes into a fresh T. For pointer types json allocates the value.
func unmarshalJSON[T any](data []byte) (T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// KVBackend implements Backend on a single Bucket.
type KVBackend struct {
	bucket Bucket
}

// Compile-time check that KVBackend implements Backend.
var _ Backend = (*KVBackend)(nil)

// NewKVBackend wraps a bucket.
func NewKVBackend(bucket Bucket) *KVBackend {
	return &KVBackend{bucket: bucket}
}

// Bucket returns the underlying bucket.
func (b *KVBackend) Bucket() Bucket {
	return b.bucket
}

func (b *KVBackend) Hydration() Store[*models.HydrationRecord] {
	return NewKVStore[*models.HydrationRecord](b.bucket, HydrationPrefix)
}

func (b *KVBackend) Gym() Store[*models.GymRecord] {
	return NewKVStore[*models.GymRecord](b.bucket, GymPrefix)
}

func (b *KVBackend) Measurements() Store[*models.BodyMeasurementRecord] {
	return NewKVStore[*models.BodyMeasurementRecord](b.bucket, MeasurementPrefix)
}

func (b *KVBackend) Credentials() CredentialStore {
	return &kvCredentials{bucket: b.bucket}
}

// Close closes the bucket.
func (b *KVBackend) Close() error {
	return b.bucket.Close()
}

type kvCredentials struct {
	bucket Bucket
}

func (c *kvCredentials) PutCredential(cred *models.UserCredential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	if err := c.bucket.Set(CredentialPrefix+cred.Username, data); err != nil {
		return fmt.Errorf("put credential: %w", err)
	}
	return nil
}

func (c *kvCredentials) GetCredential(username string) (*models.UserCredential, error) {
	data, err := c.bucket.Get(CredentialPrefix + username)
	if err != nil {
		return nil, fmt.Errorf("credential %s: %w", username, err)
	}
	cred, err := unmarshalJSON[*models.UserCredential](data)
	if err != nil {
		return nil, fmt.Errorf("decode credential %s: %w", username, err)
	}
	return cred, nil
}

func (c *kvCredentials) DeleteCredential(username string) error {
	key := CredentialPrefix + username
	if _, err := c.bucket.Get(key); err != nil {
		return fmt.Errorf("credential %s: %w", username, err)
	}
	return c.bucket.Delete(key)
}

func (c *kvCredentials) ListCredentials() ([]*models.UserCredential, error) {
	keys, err := c.bucket.Keys(CredentialPrefix)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	sort.Strings(keys)

	var out []*models.UserCredential
	for _, key := range keys {
		data, err := c.bucket.Get(key)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		cred, err := unmarshalJSON[*models.UserCredential](data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out = append(out, cred)
	}
	return out, nil
}
