package test

import (
	"context"
	"net/http"
	"testing"

	permbit "github.com/permbit/permbit"
	"github.com/permbit/permbit/middleware"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = permbit.New

	var _ *permbit.Engine
	var _ permbit.Config
	var _ permbit.SubjectGrants
	var _ permbit.Decision
	var _ permbit.MetricsSnapshot
	var _ permbit.AuditSink

	var _ error = permbit.ErrPermissionDenied
	var _ error = permbit.ErrSubjectNotFound
	var _ error = permbit.ErrUnknownPermission
	var _ error = permbit.ErrUnknownRole
	var _ error = permbit.ErrStoreConflict
	var _ error = permbit.ErrTokenInvalid
	var _ error = permbit.ErrTokensDisabled

	var _ func(*permbit.Engine, string) func(http.Handler) http.Handler = middleware.Require
	var _ func(*permbit.Engine, ...string) func(http.Handler) http.Handler = middleware.RequireAny
	var _ func(*permbit.Engine, string) func(http.Handler) http.Handler = middleware.RequireLive

	var _ func(*permbit.Engine, context.Context, string, ...string) (*permbit.SubjectGrants, error) = (*permbit.Engine).Grant
	var _ func(*permbit.Engine, context.Context, string, ...string) (*permbit.SubjectGrants, error) = (*permbit.Engine).Revoke
	var _ func(*permbit.Engine, context.Context, string, string) error = (*permbit.Engine).Check
	var _ func(*permbit.Engine, context.Context, string, ...string) error = (*permbit.Engine).CheckAny
	var _ func(*permbit.Engine, context.Context, string) (*permbit.SubjectGrants, error) = (*permbit.Engine).Resolve
	var _ func(*permbit.Engine, context.Context, string) (string, error) = (*permbit.Engine).IssueToken
	var _ func(*permbit.Engine, context.Context, string) (*permbit.Decision, error) = (*permbit.Engine).ValidateToken
}
