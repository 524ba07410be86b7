// Package permission implements the bit-flag permission set at the core of
// permbit: a 64-bit grant mask, a closed registry of named permissions, and
// role composition helpers.
//
// # Representation
//
// Each simple permission owns one power-of-two bit; composite permissions are
// unions of simple ones. A [Set] is either a restricted mask or the
// distinguished unrestricted sentinel, which satisfies every check including
// checks for permissions defined after the set was stored. The highest bit is
// reserved to tag the unrestricted state on the wire and is never assigned to
// a name.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. It provides
// the codec (Encode/Decode) used by the grant store and the token layer.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import permbit, token, or store.
//   - Assign new bit positions after [Registry.Freeze].
package permission
