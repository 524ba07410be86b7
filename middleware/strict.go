package middleware

import (
	"context"
	"net/http"

	permbit "github.com/permbit/permbit"
)

// RequireLive returns middleware that validates the bearer token and
// then re-checks the named permission against the grant store. Unlike
// [Require], a revoke takes effect on the next request instead of at
// token expiry, at the cost of a Redis round trip.
func RequireLive(engine *permbit.Engine, permission string) func(http.Handler) http.Handler {
	return guard(engine, func(ctx context.Context, token string) (*permbit.Decision, error) {
		decision, err := engine.ValidateToken(ctx, token)
		if err != nil {
			return nil, err
		}
		ctx = permbit.WithTenantID(ctx, decision.TenantID)
		if err := engine.Check(ctx, decision.SubjectID, permission); err != nil {
			return nil, err
		}
		return decision, nil
	})
}
