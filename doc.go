// Package permbit provides a bit-flag permission engine: named
// permissions packed into a 64-bit mask, an unrestricted sentinel that
// passes every check, Redis-backed per-subject grant storage, and
// optional signed grant tokens that carry the mask for stateless checks.
//
// The package is designed for concurrent server workloads: Engine
// methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// permbit is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (SubjectGrants, Decision, MetricsSnapshot).
// Pure bit arithmetic lives in the permission sub-package; persistence
// in store; token signing in token; audit dispatch under internal/ and
// is never exported directly.
//
// # What this package must NOT do
//
//   - Expose Redis clients, store encodings, or claim wire details in
//     its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Import any sub-package that re-imports permbit (no import cycles).
//
// # Performance contract
//
// Check is the hot path: one Redis round-trip, constant-time bit tests,
// no allocation beyond the loaded record. CheckToken completes without
// any Redis round-trip.
package permbit
