package permbit

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/permbit/permbit/internal/audit"
	"github.com/permbit/permbit/permission"
	"github.com/permbit/permbit/store"
	"github.com/permbit/permbit/token"
)

// Engine is the public entry point: it orchestrates the permission
// registry, the Redis grant store, the audit dispatcher, metrics, and
// the optional token layer. Engine methods are safe for concurrent use
// after [Builder.Build].
//
//	Docs: docs/engine.md
type Engine struct {
	config   Config
	registry *permission.Registry
	roles    *permission.RoleSet
	grants   *store.Store
	audit    *internalaudit.Dispatcher
	metrics  *Metrics
	tokens   *token.Manager
}

// Close drains the audit dispatcher. The Engine must not be used after
// Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Registry exposes the frozen permission registry for name lookups.
func (e *Engine) Registry() *permission.Registry {
	if e == nil {
		return nil
	}
	return e.registry
}

// Permission returns the registered permission for name.
func (e *Engine) Permission(name string) (permission.Permission, bool) {
	if e == nil || e.registry == nil {
		return 0, false
	}
	return e.registry.Lookup(name)
}

// AuditDropped returns the number of audit events discarded under
// backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a deep copy of the engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Grant adds the named permissions to the subject's persisted set.
// Granting already-held permissions is a no-op that still bumps the
// grant version. Unknown names fail with [ErrUnknownPermission] before
// any store access.
func (e *Engine) Grant(ctx context.Context, subjectID string, names ...string) (*SubjectGrants, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	p, err := e.resolveNames(names)
	if err != nil {
		return nil, err
	}

	tenantID := tenantIDFromContext(ctx)
	record, err := e.grants.Update(ctx, tenantID, subjectID, func(set permission.Set) permission.Set {
		return set.Grant(p)
	})
	if err != nil {
		e.emitMutation(ctx, internalaudit.TypeGrant, subjectID, tenantID, names, err)
		return nil, e.mapStoreErr(err)
	}

	e.metricInc(MetricGrant)
	e.emitMutation(ctx, internalaudit.TypeGrant, subjectID, tenantID, names, nil)

	return e.subjectGrants(subjectID, tenantID, record), nil
}

// Revoke clears the named permissions from the subject's persisted set.
// Revoking unset permissions is a no-op that still bumps the grant
// version. A subject in the unrestricted state keeps it: the sentinel
// subsumes every bit, and only [Engine.ResetSubject] (or a role
// reassignment) leaves it.
func (e *Engine) Revoke(ctx context.Context, subjectID string, names ...string) (*SubjectGrants, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	p, err := e.resolveNames(names)
	if err != nil {
		return nil, err
	}

	tenantID := tenantIDFromContext(ctx)
	record, err := e.grants.Update(ctx, tenantID, subjectID, func(set permission.Set) permission.Set {
		return set.Revoke(p)
	})
	if err != nil {
		e.emitMutation(ctx, internalaudit.TypeRevoke, subjectID, tenantID, names, err)
		return nil, e.mapStoreErr(err)
	}

	e.metricInc(MetricRevoke)
	e.emitMutation(ctx, internalaudit.TypeRevoke, subjectID, tenantID, names, nil)

	return e.subjectGrants(subjectID, tenantID, record), nil
}

// GrantRole unions the role's mask into the subject's set. Granting an
// unrestricted role replaces the set with the sentinel.
func (e *Engine) GrantRole(ctx context.Context, subjectID, role string) (*SubjectGrants, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	mask, ok := e.roles.Mask(role)
	if !ok {
		return nil, ErrUnknownRole
	}

	tenantID := tenantIDFromContext(ctx)
	record, err := e.grants.Update(ctx, tenantID, subjectID, func(set permission.Set) permission.Set {
		return set.Union(mask)
	})
	if err != nil {
		e.emitMutation(ctx, internalaudit.TypeRoleGrant, subjectID, tenantID, []string{role}, err)
		return nil, e.mapStoreErr(err)
	}

	e.metricInc(MetricRoleGrant)
	e.emitMutation(ctx, internalaudit.TypeRoleGrant, subjectID, tenantID, []string{role}, nil)

	return e.subjectGrants(subjectID, tenantID, record), nil
}

// Check verifies that the subject holds every bit of the named
// permission. A subject without a grant record is denied, not errored:
// absence of grants is the deny-by-default state. Denials emit an audit
// event; checks satisfied by the unrestricted sentinel are counted
// separately.
func (e *Engine) Check(ctx context.Context, subjectID, name string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.Observe(MetricCheckLatency, time.Since(start))
		}
	}()

	p, ok := e.registry.Lookup(name)
	if !ok {
		return ErrUnknownPermission
	}

	set, err := e.loadSet(ctx, subjectID)
	if err != nil {
		return err
	}

	if set.IsUnrestricted() {
		e.metricInc(MetricCheckUnrestricted)
		return nil
	}
	if set.Has(p) {
		e.metricInc(MetricCheckAllowed)
		return nil
	}

	e.metricInc(MetricCheckDenied)
	e.emitDenied(ctx, subjectID, []string{name})
	return ErrPermissionDenied
}

// CheckAny verifies that the subject holds at least one bit from the
// union of the named permissions.
func (e *Engine) CheckAny(ctx context.Context, subjectID string, names ...string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	p, err := e.resolveNames(names)
	if err != nil {
		return err
	}

	set, err := e.loadSet(ctx, subjectID)
	if err != nil {
		return err
	}

	if set.IsUnrestricted() {
		e.metricInc(MetricCheckUnrestricted)
		return nil
	}
	if set.HasAny(p) {
		e.metricInc(MetricCheckAllowed)
		return nil
	}

	e.metricInc(MetricCheckDenied)
	e.emitDenied(ctx, subjectID, names)
	return ErrPermissionDenied
}

// Resolve returns the subject's current grant state, or
// [ErrSubjectNotFound] when no record exists.
func (e *Engine) Resolve(ctx context.Context, subjectID string) (*SubjectGrants, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	tenantID := tenantIDFromContext(ctx)
	record, err := e.grants.Load(ctx, tenantID, subjectID)
	if err != nil {
		return nil, e.mapStoreErr(err)
	}

	return e.subjectGrants(subjectID, tenantID, record), nil
}

// ResetSubject deletes the subject's grant record, returning it to the
// deny-by-default state. This is also the administrative way to demote
// an unrestricted subject.
func (e *Engine) ResetSubject(ctx context.Context, subjectID string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	tenantID := tenantIDFromContext(ctx)
	if err := e.grants.Delete(ctx, tenantID, subjectID); err != nil {
		return e.mapStoreErr(err)
	}

	e.metricInc(MetricSubjectReset)
	e.emitMutation(ctx, internalaudit.TypeSubjectReset, subjectID, tenantID, nil, nil)
	return nil
}

// IssueToken signs a short-lived token carrying the subject's current
// mask and grant version. Fails with [ErrTokensDisabled] when no token
// layer is configured and [ErrSubjectNotFound] when the subject has no
// grants to encode.
func (e *Engine) IssueToken(ctx context.Context, subjectID string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	if e.tokens == nil {
		return "", ErrTokensDisabled
	}

	tenantID := tenantIDFromContext(ctx)
	record, err := e.grants.Load(ctx, tenantID, subjectID)
	if err != nil {
		return "", e.mapStoreErr(err)
	}

	signed, err := e.tokens.Issue(subjectID, tenantID, record.Set, record.Version)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricTokenIssued)
	e.emitMutation(ctx, internalaudit.TypeTokenIssued, subjectID, tenantID, nil, nil)
	return signed, nil
}

// ValidateToken verifies a grant token and returns the carried decision.
// This is the stateless check path: no store access, so a revoke takes
// effect here only after the token expires.
func (e *Engine) ValidateToken(ctx context.Context, tokenStr string) (*Decision, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if e.tokens == nil {
		return nil, ErrTokensDisabled
	}

	claims, err := e.tokens.Parse(tokenStr)
	if err != nil {
		e.metricInc(MetricTokenRejected)
		return nil, ErrTokenInvalid
	}

	set, err := claims.Set()
	if err != nil {
		e.metricInc(MetricTokenRejected)
		return nil, ErrTokenInvalid
	}

	return &Decision{
		SubjectID:    claims.Subject,
		TenantID:     claims.Tenant,
		Set:          set,
		GrantVersion: claims.GrantVersion,
	}, nil
}

// CheckToken validates the token and verifies the named permission
// against the carried mask.
func (e *Engine) CheckToken(ctx context.Context, tokenStr, name string) (*Decision, error) {
	decision, err := e.ValidateToken(ctx, tokenStr)
	if err != nil {
		return nil, err
	}

	p, ok := e.registry.Lookup(name)
	if !ok {
		return nil, ErrUnknownPermission
	}

	if decision.Set.IsUnrestricted() {
		e.metricInc(MetricCheckUnrestricted)
		return decision, nil
	}
	if decision.Set.Has(p) {
		e.metricInc(MetricCheckAllowed)
		return decision, nil
	}

	e.metricInc(MetricCheckDenied)
	e.emitDenied(ctx, decision.SubjectID, []string{name})
	return nil, ErrPermissionDenied
}

func (e *Engine) resolveNames(names []string) (permission.Permission, error) {
	if len(names) == 0 {
		return 0, ErrUnknownPermission
	}
	p, err := e.registry.Resolve(names...)
	if err != nil {
		return 0, ErrUnknownPermission
	}
	return p, nil
}

// loadSet treats a missing record as the empty set: deny-by-default.
func (e *Engine) loadSet(ctx context.Context, subjectID string) (permission.Set, error) {
	record, err := e.grants.Load(ctx, tenantIDFromContext(ctx), subjectID)
	if errors.Is(err, store.ErrSubjectNotFound) {
		return permission.Empty(), nil
	}
	if err != nil {
		return permission.Set{}, e.mapStoreErr(err)
	}
	return record.Set, nil
}

func (e *Engine) subjectGrants(subjectID, tenantID string, record *store.Record) *SubjectGrants {
	return &SubjectGrants{
		SubjectID:   subjectID,
		TenantID:    tenantID,
		Set:         record.Set,
		Version:     record.Version,
		Permissions: e.registry.Names(record.Set),
	}
}

func (e *Engine) mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrSubjectNotFound):
		return ErrSubjectNotFound
	case errors.Is(err, store.ErrConflict):
		e.metricInc(MetricStoreConflict)
		return ErrStoreConflict
	case errors.Is(err, store.ErrRecordCorrupt):
		return err
	default:
		return ErrStoreUnavailable
	}
}

func (e *Engine) emitMutation(ctx context.Context, eventType, subjectID, tenantID string, names []string, opErr error) {
	if e.audit == nil {
		return
	}

	event := AuditEvent{
		EventType:   eventType,
		SubjectID:   subjectID,
		TenantID:    tenantID,
		ActorID:     actorIDFromContext(ctx),
		Permissions: names,
		Success:     opErr == nil,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitDenied(ctx context.Context, subjectID string, names []string) {
	if e.audit == nil {
		return
	}

	e.audit.Emit(ctx, AuditEvent{
		EventType:   internalaudit.TypeCheckDenied,
		SubjectID:   subjectID,
		TenantID:    tenantIDFromContext(ctx),
		ActorID:     actorIDFromContext(ctx),
		Permissions: names,
		Success:     false,
		Error:       ErrPermissionDenied.Error(),
	})
}
