package permission

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Set{
		Empty(),
		Empty().Grant(1),
		Empty().Grant(3),
		FromBits(0x00ffeeddccbbaa99),
		Unrestricted(),
	}

	for _, want := range cases {
		got, err := Decode(Encode(want))
		if err != nil {
			t.Fatalf("decode failed for raw %d: %v", want.Raw(), err)
		}
		if !got.Equal(want) {
			t.Fatalf("roundtrip mismatch: raw %d vs %d", got.Raw(), want.Raw())
		}
	}
}

func TestDecodeReservedBitMeansUnrestricted(t *testing.T) {
	data := []byte{0x80, 0, 0, 0, 0, 0, 0, 1}

	s, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !s.IsUnrestricted() {
		t.Fatal("reserved bit did not decode as unrestricted")
	}
}

func TestDecodeInvalidLength(t *testing.T) {
	for _, n := range []int{0, 1, 7, 9, 16} {
		if _, err := Decode(make([]byte, n)); !errors.Is(err, ErrInvalidEncoding) {
			t.Fatalf("len %d: expected ErrInvalidEncoding, got %v", n, err)
		}
	}
}

func TestFormatAndParse(t *testing.T) {
	r := newClientRegistry(t)

	s := Empty().Grant(1).Grant(2)
	text := Format(r, s)
	if text != "client.add|client.delete" {
		t.Fatalf("Format = %q", text)
	}

	parsed, err := Parse(r, text)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !parsed.Equal(s) {
		t.Fatalf("parse mismatch: raw %d vs %d", parsed.Raw(), s.Raw())
	}
}

func TestFormatUnrestricted(t *testing.T) {
	r := newClientRegistry(t)

	if Format(r, Unrestricted()) != UnrestrictedLabel {
		t.Fatal("unrestricted did not format as the label")
	}

	s, err := Parse(r, UnrestrictedLabel)
	if err != nil || !s.IsUnrestricted() {
		t.Fatalf("parse %q = %v, %v", UnrestrictedLabel, s, err)
	}
}

func TestParseEmptyAndUnknown(t *testing.T) {
	r := newClientRegistry(t)

	s, err := Parse(r, "")
	if err != nil || !s.IsEmpty() {
		t.Fatalf("empty parse = raw %d, %v", s.Raw(), err)
	}

	if _, err := Parse(r, "client.add|client.archive"); !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("expected ErrUnknownPermission, got %v", err)
	}
}
