package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"

	"github.com/permbit/permbit/permission"
)

func newHSManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()

	m, err := NewManager(Config{
		TTL:           ttl,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "permbit-test",
	})
	if err != nil {
		t.Fatalf("manager init failed: %v", err)
	}
	return m
}

func TestIssueParseRoundTrip(t *testing.T) {
	m := newHSManager(t, time.Minute)

	set := permission.Empty().Grant(1).Grant(2)
	tok, err := m.Issue("u1", "t1", set, 3)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "u1" || claims.Tenant != "t1" || claims.GrantVersion != 3 {
		t.Fatalf("claims = %+v", claims)
	}

	got, err := claims.Set()
	if err != nil {
		t.Fatalf("set decode failed: %v", err)
	}
	if !got.Equal(set) {
		t.Fatalf("mask mismatch: raw %d vs %d", got.Raw(), set.Raw())
	}
}

func TestUnrestrictedMaskSurvivesToken(t *testing.T) {
	m := newHSManager(t, time.Minute)

	tok, err := m.Issue("root", "0", permission.Unrestricted(), 1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	set, err := claims.Set()
	if err != nil {
		t.Fatalf("set decode failed: %v", err)
	}
	if !set.IsUnrestricted() {
		t.Fatal("unrestricted tag lost in transit")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := newHSManager(t, time.Millisecond)

	tok, err := m.Issue("u1", "0", permission.Empty(), 1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := m.Parse(tok); err == nil {
		t.Fatal("expired token parsed successfully")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	m := newHSManager(t, time.Minute)

	tok, err := m.Issue("u1", "0", permission.Empty().Grant(1), 1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := m.Parse(tampered); err == nil {
		t.Fatal("tampered token parsed successfully")
	}
}

func TestWrongKeyRejected(t *testing.T) {
	m := newHSManager(t, time.Minute)
	other, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("ffffffffffffffffffffffffffffffff"),
		Issuer:        "permbit-test",
	})
	if err != nil {
		t.Fatalf("manager init failed: %v", err)
	}

	tok, err := other.Issue("u1", "0", permission.Empty(), 1)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := m.Parse(tok); err == nil {
		t.Fatal("token under a different key parsed successfully")
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}

	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("manager init failed: %v", err)
	}

	tok, err := m.Issue("u1", "0", permission.Empty().Grant(4), 2)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Subject != "u1" || claims.GrantVersion != 2 {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestManagerConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero ttl", Config{SigningMethod: MethodHS256, PrivateKey: []byte("k")}},
		{"hs256 missing key", Config{TTL: time.Minute, SigningMethod: MethodHS256}},
		{"unknown method", Config{TTL: time.Minute, SigningMethod: "rs256"}},
		{"excessive leeway", Config{TTL: time.Minute, SigningMethod: MethodHS256, PrivateKey: []byte("k"), Leeway: time.Hour}},
	}

	for _, tc := range cases {
		if _, err := NewManager(tc.cfg); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
