package permission

import (
	"encoding/binary"
	"errors"
	"strings"
)

// EncodedSize is the wire size of an encoded [Set].
const EncodedSize = 8

// ErrInvalidEncoding is returned by [Decode] for malformed input.
var ErrInvalidEncoding = errors.New("invalid set encoding")

// UnrestrictedLabel is the textual form of the unrestricted set.
const UnrestrictedLabel = "*"

// Encode returns the big-endian 8-byte wire form of s. The unrestricted
// set encodes as all ones; the reserved high bit keeps that value out of
// the restricted domain, so decoding is unambiguous.
func Encode(s Set) []byte {
	b := make([]byte, EncodedSize)
	binary.BigEndian.PutUint64(b, s.Raw())
	return b
}

// Decode parses the wire form produced by [Encode]. Any value with the
// reserved high bit set decodes as the unrestricted set.
func Decode(data []byte) (Set, error) {
	if len(data) != EncodedSize {
		return Set{}, ErrInvalidEncoding
	}
	raw := binary.BigEndian.Uint64(data)
	if raw&reservedBit != 0 {
		return Unrestricted(), nil
	}
	return FromBits(raw), nil
}

// Format renders s as a pipe-separated list of simple permission names
// resolved through r, or [UnrestrictedLabel] for the unrestricted set.
func Format(r *Registry, s Set) string {
	if s.IsUnrestricted() {
		return UnrestrictedLabel
	}
	return strings.Join(r.Names(s), "|")
}

// Parse is the inverse of [Format]. Unknown names fail with
// [ErrUnknownPermission]; the empty string parses as the empty set.
func Parse(r *Registry, value string) (Set, error) {
	if value == UnrestrictedLabel {
		return Unrestricted(), nil
	}
	if value == "" {
		return Empty(), nil
	}

	s := Empty()
	for _, name := range strings.Split(value, "|") {
		p, ok := r.Lookup(name)
		if !ok {
			return Set{}, ErrUnknownPermission
		}
		s = s.Grant(p)
	}
	return s, nil
}
