package permission

// reservedBit is the highest bit of the 64-bit mask. It is never assigned
// to a named permission; the wire encoding uses it to tag the unrestricted
// state, which keeps all-bits-set unambiguous.
const reservedBit uint64 = 1 << 63

const allBits = ^uint64(0)

// Permission is a named capability backed by one or more reserved bits of
// a 64-bit mask. Simple permissions occupy exactly one bit; composite
// permissions are the union of previously registered simple permissions.
//
//	Docs: docs/permission.md
type Permission uint64

// Union combines two permissions into one multi-bit permission.
func (p Permission) Union(o Permission) Permission {
	return p | o
}

// Set is an immutable permission set: a 64-bit grant mask plus a
// distinguished unrestricted tag. The zero value is the empty set.
// Grant and Revoke return a new value instead of mutating, so a Set can
// be shared across goroutines without locking.
//
//	Docs: docs/permission.md
type Set struct {
	bits         uint64
	unrestricted bool
}

// Empty returns the set with no grants.
func Empty() Set {
	return Set{}
}

// FromBits builds a set from a raw grant mask. The reserved tag bit is
// cleared; use [Unrestricted] to construct the unrestricted state.
func FromBits(bits uint64) Set {
	return Set{bits: bits &^ reservedBit}
}

// Unrestricted returns the sentinel set that satisfies every permission,
// including permissions registered after the set was stored.
func Unrestricted() Set {
	return Set{unrestricted: true}
}

// Grant returns a copy of s with every bit of p set. Granting an
// already-granted permission is a no-op. Granting to the unrestricted
// set leaves it unrestricted.
func (s Set) Grant(p Permission) Set {
	if s.unrestricted {
		return s
	}
	s.bits |= uint64(p) &^ reservedBit
	return s
}

// Revoke returns a copy of s with every bit of p cleared. Revoking an
// unset permission is a no-op.
//
// The unrestricted set subsumes every bit, so Revoke has no effect on
// it. Callers that need to demote an unrestricted subject use
// [Set.Restrict] to re-enter the restricted state explicitly.
func (s Set) Revoke(p Permission) Set {
	if s.unrestricted {
		return s
	}
	s.bits &^= uint64(p)
	return s
}

// Restrict replaces s with a restricted set holding exactly the given
// bits. It is the only way out of the unrestricted state.
func (s Set) Restrict(bits uint64) Set {
	return FromBits(bits)
}

// Has reports whether every bit required by p is granted. The
// unrestricted set satisfies every permission. For multi-bit permissions
// the stored mask must cover the full requested mask; overlapping on a
// single bit is not enough.
func (s Set) Has(p Permission) bool {
	if s.unrestricted {
		return true
	}
	return s.bits&uint64(p) == uint64(p)
}

// HasAny reports whether at least one bit of mask is granted. This is
// the OR-style counterpart of [Set.Has]; the two must not be conflated.
func (s Set) HasAny(mask Permission) bool {
	if s.unrestricted {
		return true
	}
	return s.bits&uint64(mask) != 0
}

// Union returns the set holding every grant of s and o. If either side
// is unrestricted the result is unrestricted.
func (s Set) Union(o Set) Set {
	if s.unrestricted || o.unrestricted {
		return Unrestricted()
	}
	return Set{bits: s.bits | o.bits}
}

// Raw returns the wire-form mask: the grant bits for a restricted set,
// or all ones for the unrestricted set.
func (s Set) Raw() uint64 {
	if s.unrestricted {
		return allBits
	}
	return s.bits
}

// IsUnrestricted reports whether s is the unrestricted sentinel.
func (s Set) IsUnrestricted() bool {
	return s.unrestricted
}

// Bits returns the granted bit positions in ascending order. The
// unrestricted set has no enumerable bits; callers check
// [Set.IsUnrestricted] first.
func (s Set) Bits() []int {
	if s.unrestricted || s.bits == 0 {
		return nil
	}
	out := make([]int, 0, 8)
	for bit := 0; bit < 64; bit++ {
		if s.bits&(1<<bit) != 0 {
			out = append(out, bit)
		}
	}
	return out
}

// IsEmpty reports whether s grants nothing.
func (s Set) IsEmpty() bool {
	return !s.unrestricted && s.bits == 0
}

// Equal reports whether two sets grant exactly the same permissions.
func (s Set) Equal(o Set) bool {
	return s.unrestricted == o.unrestricted && s.bits == o.bits
}
