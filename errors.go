package permbit

import "errors"

var (
	// ErrPermissionDenied is returned by Check when the subject lacks a required bit.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrSubjectNotFound is returned when a subject has no grant record.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrUnknownPermission is returned when an operation names an unregistered permission.
	ErrUnknownPermission = errors.New("unknown permission")
	// ErrUnknownRole is returned when an operation names an unregistered role.
	ErrUnknownRole = errors.New("unknown role")
	// ErrStoreUnavailable is returned when the grant store backend cannot be reached.
	ErrStoreUnavailable = errors.New("grant store unavailable")
	// ErrStoreConflict is returned when a grant mutation loses too many optimistic races.
	ErrStoreConflict = errors.New("grant store conflict")
	// ErrTokenInvalid is returned when a grant token fails validation.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokensDisabled is returned when token operations run without a configured token layer.
	ErrTokensDisabled = errors.New("token issuing disabled")
	// ErrEngineNotReady is returned when an Engine method runs before Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)
