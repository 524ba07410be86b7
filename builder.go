package permbit

import (
	"errors"

	internalaudit "github.com/permbit/permbit/internal/audit"
	"github.com/permbit/permbit/permission"
	"github.com/permbit/permbit/store"
	"github.com/permbit/permbit/token"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. A Builder is single-use: Build consumes
// it and further calls fail.
type Builder struct {
	config Config
	redis  *redis.Client

	permissions []string
	composites  map[string][]string
	roles       map[string][]string

	auditSink AuditSink

	built bool
}

// New returns a [Builder] preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the grant store.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithPermissions declares the simple permissions in bit order. The
// order is part of the persisted schema: append new names, never
// reorder.
func (b *Builder) WithPermissions(perms []string) *Builder {
	b.permissions = perms
	return b
}

// WithComposites declares named multi-bit permissions as unions of
// simple permission names.
func (b *Builder) WithComposites(composites map[string][]string) *Builder {
	b.composites = composites
	return b
}

// WithRoles declares the role map: role name to granted permission
// names.
func (b *Builder) WithRoles(roles map[string][]string) *Builder {
	b.roles = roles
	return b
}

// WithAuditSink sets the sink receiving audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Check latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires every subsystem, and returns
// the ready [Engine].
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(b.permissions) == 0 {
		return nil, errors.New("permissions must be provided")
	}

	registry := permission.NewRegistry()
	for _, p := range b.permissions {
		if _, err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	for name, members := range b.composites {
		if _, err := registry.RegisterComposite(name, members...); err != nil {
			return nil, err
		}
	}
	registry.Freeze()

	roles := permission.NewRoleSet(registry)
	for roleName, permList := range b.roles {
		if roleName == cfg.Permission.UnrestrictedRole {
			return nil, errors.New("unrestricted role must not appear in the role map")
		}
		if err := roles.Register(roleName, permList); err != nil {
			return nil, err
		}
	}
	if cfg.Permission.UnrestrictedRole != "" {
		if err := roles.RegisterUnrestricted(cfg.Permission.UnrestrictedRole); err != nil {
			return nil, err
		}
	}
	roles.Freeze()

	grants := store.NewStore(
		b.redis,
		cfg.Store.RedisPrefix,
		cfg.Store.TTL,
		cfg.Store.JitterEnabled,
		cfg.Store.JitterRange,
	)

	engine := &Engine{
		config:   cfg,
		registry: registry,
		roles:    roles,
		grants:   grants,
	}

	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	if cfg.Token.SigningMethod != "" {
		tm, err := token.NewManager(token.Config{
			TTL:           cfg.Token.TTL,
			SigningMethod: token.SigningMethod(cfg.Token.SigningMethod),
			PrivateKey:    cloneBytes(cfg.Token.PrivateKey),
			PublicKey:     cloneBytes(cfg.Token.PublicKey),
			Issuer:        cfg.Token.Issuer,
			Leeway:        cfg.Token.Leeway,
		})
		if err != nil {
			return nil, err
		}
		engine.tokens = tm
	}

	b.built = true

	return engine, nil
}
