package permbit

import (
	"errors"
	"time"

	"github.com/permbit/permbit/token"
)

// Config holds every tunable for the engine. Instances are cloned by the
// Builder and treated as immutable after Build.
type Config struct {
	Permission PermissionConfig
	Store      StoreConfig
	Token      TokenConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

// PermissionConfig controls permission and role wiring.
type PermissionConfig struct {
	// UnrestrictedRole, when non-empty, is registered as the sentinel
	// role that passes every check. It must not appear in the role map
	// passed to the Builder.
	UnrestrictedRole string
}

// StoreConfig controls the Redis grant store.
type StoreConfig struct {
	RedisPrefix string
	// TTL of zero keeps grant records until explicitly deleted.
	TTL           time.Duration
	JitterEnabled bool
	JitterRange   time.Duration
}

// TokenConfig controls the optional signed-token layer. Leave
// SigningMethod empty to disable token issuing.
type TokenConfig struct {
	TTL           time.Duration
	SigningMethod string // "ed25519" or "hs256"
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			RedisPrefix: "pb",
		},
		Token: TokenConfig{
			TTL: 5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Store.JitterEnabled && c.Store.JitterRange <= 0 {
		return errors.New("store jitter enabled with non-positive range")
	}
	if c.Store.JitterEnabled && c.Store.TTL <= 0 {
		return errors.New("store jitter requires a positive TTL")
	}

	if c.Token.SigningMethod != "" {
		if c.Token.TTL <= 0 {
			return errors.New("token TTL must be positive")
		}
		switch token.SigningMethod(c.Token.SigningMethod) {
		case token.MethodEd25519, token.MethodHS256:
		default:
			return errors.New("unsupported token signing method")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit buffer size cannot be negative")
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
