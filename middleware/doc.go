// Package middleware exposes HTTP guards that enforce permbit
// permissions on wrapped handlers.
//
// # Guards
//
//   - [Require] — bearer token must carry every bit of one permission.
//   - [RequireAny] — bearer token must carry at least one of several.
//   - [RequireLive] — token validation plus a live store check, so
//     revokes apply before token expiry.
//
// Each guard reads the Authorization header, evaluates the permission,
// and injects the validated [permbit.Decision] into the request context
// for [DecisionFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// evaluate permission bits itself — all decisions are delegated to the
// Engine.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from the Engine.
package middleware
