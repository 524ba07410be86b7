// Package token issues and validates signed grant tokens.
//
// A token carries the subject's 8-byte permission mask and grant version
// in its claims, so permission checks against a valid token need no
// store round trip. The trade-off is staleness: a revoke takes effect on
// the stateless path only after the token expires, which is why the
// default TTL is short. Callers that cannot tolerate the window use
// [permbit.Engine.Check] against the store instead.
package token
