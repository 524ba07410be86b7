package permission

import (
	"errors"
	"sync"
)

var (
	// ErrRoleSetFrozen is returned when registering a role after Freeze.
	ErrRoleSetFrozen = errors.New("role set frozen")
	// ErrEmptyRoleName is returned when a role name is empty.
	ErrEmptyRoleName = errors.New("role name cannot be empty")
	// ErrDuplicateRole is returned when a role is registered twice.
	ErrDuplicateRole = errors.New("role already registered")
	// ErrUnknownRole is returned when looking up an unregistered role.
	ErrUnknownRole = errors.New("role not registered")
)

// RoleSet maps role names to precomputed permission masks. Roles are
// registered against a [Registry] during initialization and frozen
// before use, mirroring the registry lifecycle.
//
//	Docs: docs/permission.md
type RoleSet struct {
	registry *Registry

	mu     sync.RWMutex
	roles  map[string]Set
	frozen bool
}

// NewRoleSet creates an empty [RoleSet] bound to the given registry.
func NewRoleSet(registry *Registry) *RoleSet {
	return &RoleSet{
		registry: registry,
		roles:    make(map[string]Set),
	}
}

// Register builds the role's mask from the named permissions and stores
// it. Every name must already be registered.
func (rs *RoleSet) Register(name string, permissionNames []string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.frozen {
		return ErrRoleSetFrozen
	}
	if name == "" {
		return ErrEmptyRoleName
	}
	if _, exists := rs.roles[name]; exists {
		return ErrDuplicateRole
	}

	p, err := rs.registry.Resolve(permissionNames...)
	if err != nil {
		return err
	}

	rs.roles[name] = Empty().Grant(p)
	return nil
}

// RegisterUnrestricted stores the role as the unrestricted sentinel.
// Subjects holding it pass every permission check, including checks for
// permissions registered after the role was created.
func (rs *RoleSet) RegisterUnrestricted(name string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.frozen {
		return ErrRoleSetFrozen
	}
	if name == "" {
		return ErrEmptyRoleName
	}
	if _, exists := rs.roles[name]; exists {
		return ErrDuplicateRole
	}

	rs.roles[name] = Unrestricted()
	return nil
}

// Mask returns the mask registered for the role.
func (rs *RoleSet) Mask(name string) (Set, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	s, ok := rs.roles[name]
	return s, ok
}

// Freeze prevents further role registrations.
func (rs *RoleSet) Freeze() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.frozen = true
}

// Count returns the number of registered roles.
func (rs *RoleSet) Count() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.roles)
}
