package permbit

import "github.com/permbit/permbit/permission"

// SubjectGrants is the resolved grant state of one subject, returned by
// [Engine.Resolve] and by the mutating operations.
type SubjectGrants struct {
	SubjectID string
	TenantID  string

	// Set is the subject's current permission set.
	Set permission.Set

	// Version counts mutations to the subject's grants. Tokens minted
	// against an older version can be rejected by strict callers.
	Version uint32

	// Permissions lists the granted simple permission names in bit order.
	Permissions []string
}

// Decision is the outcome of validating a grant token. The embedded Set
// supports further Has checks without touching the store.
type Decision struct {
	SubjectID    string
	TenantID     string
	Set          permission.Set
	GrantVersion uint32
}

// Has reports whether the decision's set covers the permission.
func (d *Decision) Has(p permission.Permission) bool {
	if d == nil {
		return false
	}
	return d.Set.Has(p)
}
