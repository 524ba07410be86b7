// Package store persists per-subject grant records in Redis.
//
// Records are small fixed-size binary blobs: a schema version byte, a
// uint32 mutation counter, and the 8-byte permission mask. Mutations go
// through an optimistic WATCH transaction with bounded retries so
// concurrent grants and revokes never lose bits.
//
// # What this package must NOT do
//
//   - Interpret permission semantics (that belongs to package permission).
//   - Expose Redis types in its public API beyond the constructor.
package store
