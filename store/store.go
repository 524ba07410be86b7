package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/permbit/permbit/permission"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrSubjectNotFound is returned when no grant record exists for the subject.
	ErrSubjectNotFound = errors.New("subject grants not found")
	// ErrRecordCorrupt is returned when a stored grant record fails to decode.
	ErrRecordCorrupt = errors.New("grant record corrupt")
	// ErrRedisUnavailable is returned when the backing Redis cannot be reached.
	ErrRedisUnavailable = errors.New("grant store redis unavailable")
	// ErrConflict is returned when an optimistic update loses too many races.
	ErrConflict = errors.New("grant update conflict")
)

const updateMaxRetries = 4

// Record is one subject's persisted grant state. Version counts
// successful mutations; callers use it to detect stale reads and to
// invalidate tokens minted against an older grant set.
type Record struct {
	Version uint32
	Set     permission.Set
}

// Store persists per-subject grant records in Redis under
// <prefix>:<tenant>:<subject>. A zero TTL keeps records until deleted;
// a positive TTL expires them, optionally jittered so bulk-granted
// subjects do not expire in lockstep.
//
//	Docs: docs/engine.md
type Store struct {
	redis         *redis.Client
	prefix        string
	ttl           time.Duration
	jitterEnabled bool
	jitterRange   time.Duration
}

// NewStore creates a grant [Store] on the given Redis client.
func NewStore(redisClient *redis.Client, prefix string, ttl time.Duration, jitterEnabled bool, jitterRange time.Duration) *Store {
	if prefix == "" {
		prefix = "pb"
	}
	return &Store{
		redis:         redisClient,
		prefix:        prefix,
		ttl:           ttl,
		jitterEnabled: jitterEnabled,
		jitterRange:   jitterRange,
	}
}

func (s *Store) key(tenantID, subjectID string) string {
	if tenantID == "" {
		tenantID = "0"
	}
	return s.prefix + ":" + tenantID + ":" + subjectID
}

// Load returns the subject's grant record, or [ErrSubjectNotFound] when
// none exists.
func (s *Store) Load(ctx context.Context, tenantID, subjectID string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.key(tenantID, subjectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSubjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	record, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Save writes the record unconditionally. Prefer [Store.Update] for
// read-modify-write mutations.
func (s *Store) Save(ctx context.Context, tenantID, subjectID string, record *Record) error {
	encoded, err := encodeRecord(record)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(tenantID, subjectID), encoded, s.effectiveTTL()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Update applies fn to the subject's current grant set under optimistic
// concurrency (WATCH + transactional write) and bumps the record
// version. A missing record starts from the empty set at version zero.
// After [ErrConflict] the caller may simply retry; fn must be pure.
func (s *Store) Update(ctx context.Context, tenantID, subjectID string, fn func(permission.Set) permission.Set) (*Record, error) {
	key := s.key(tenantID, subjectID)

	for i := 0; i < updateMaxRetries; i++ {
		var updated *Record

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			current := &Record{Set: permission.Empty()}

			data, err := tx.Get(ctx, key).Bytes()
			switch {
			case errors.Is(err, redis.Nil):
				// first grant for this subject
			case err != nil:
				return err
			default:
				current, err = decodeRecord(data)
				if err != nil {
					return err
				}
			}

			next := &Record{
				Version: current.Version + 1,
				Set:     fn(current.Set),
			}

			encoded, err := encodeRecord(next)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, s.effectiveTTL())
				return nil
			})
			if err != nil {
				return err
			}

			updated = next
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrRecordCorrupt) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}

		return updated, nil
	}

	return nil, ErrConflict
}

// Delete removes the subject's grant record. Deleting a missing record
// is not an error.
func (s *Store) Delete(ctx context.Context, tenantID, subjectID string) error {
	if err := s.redis.Del(ctx, s.key(tenantID, subjectID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (s *Store) effectiveTTL() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	if !s.jitterEnabled || s.jitterRange <= 0 {
		return s.ttl
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(s.jitterRange)))
	if err != nil {
		return s.ttl
	}
	return s.ttl + time.Duration(n.Int64())
}
