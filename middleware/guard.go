package middleware

import (
	"context"
	"net/http"
	"strings"

	permbit "github.com/permbit/permbit"
)

type decisionContextKey struct{}

// DecisionFromContext returns the [permbit.Decision] injected by a guard
// for the current request.
func DecisionFromContext(ctx context.Context) (*permbit.Decision, bool) {
	d, ok := ctx.Value(decisionContextKey{}).(*permbit.Decision)
	return d, ok
}

// Require returns middleware that admits only requests whose bearer
// token carries every bit of the named permission. The validated
// decision is injected into the request context.
func Require(engine *permbit.Engine, permission string) func(http.Handler) http.Handler {
	return guard(engine, func(ctx context.Context, token string) (*permbit.Decision, error) {
		return engine.CheckToken(ctx, token, permission)
	})
}

// RequireAny returns middleware that admits requests whose bearer token
// carries at least one of the named permissions.
func RequireAny(engine *permbit.Engine, permissions ...string) func(http.Handler) http.Handler {
	return guard(engine, func(ctx context.Context, token string) (*permbit.Decision, error) {
		decision, err := engine.ValidateToken(ctx, token)
		if err != nil {
			return nil, err
		}
		if decision.Set.IsUnrestricted() {
			return decision, nil
		}
		for _, name := range permissions {
			p, ok := engine.Permission(name)
			if !ok {
				return nil, permbit.ErrUnknownPermission
			}
			if decision.Set.HasAny(p) {
				return decision, nil
			}
		}
		return nil, permbit.ErrPermissionDenied
	})
}

func guard(engine *permbit.Engine, check func(context.Context, string) (*permbit.Decision, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			decision, err := check(r.Context(), token)
			if err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), decisionContextKey{}, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
