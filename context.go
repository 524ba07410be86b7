package permbit

import "context"

type tenantIDContextKey struct{}
type actorIDContextKey struct{}

// WithTenantID attaches a tenant identifier to ctx. Grant records are
// keyed per tenant; when no tenant is attached, the default tenant "0"
// is used.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDContextKey{}, tenantID)
}

// WithActorID attaches the identity performing a grant or revoke to ctx.
// It appears in audit events as the actor, distinct from the subject
// whose grants change.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDContextKey{}, actorID)
}

func tenantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return "0"
	}

	tenantID, _ := ctx.Value(tenantIDContextKey{}).(string)
	if tenantID == "" {
		return "0"
	}

	return tenantID
}

func actorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	actorID, _ := ctx.Value(actorIDContextKey{}).(string)
	return actorID
}
