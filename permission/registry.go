package permission

import (
	"errors"
	"sync"
)

// MaxNamedBits is the number of bit positions available to simple
// permissions. The highest bit is reserved for the unrestricted wire tag
// and is never assigned.
const MaxNamedBits = 63

var (
	// ErrRegistryFrozen is returned when registering after Freeze.
	ErrRegistryFrozen = errors.New("permission registry frozen")
	// ErrEmptyName is returned when a permission name is empty.
	ErrEmptyName = errors.New("permission name cannot be empty")
	// ErrDuplicatePermission is returned when a name is registered twice.
	ErrDuplicatePermission = errors.New("permission already registered")
	// ErrPermissionLimit is returned when no bit positions remain.
	ErrPermissionLimit = errors.New("permission limit exceeded")
	// ErrUnknownPermission is returned when resolving an unregistered name.
	ErrUnknownPermission = errors.New("permission not registered")
)

// Registry maps permission names to bit positions within the 64-bit
// mask. The set of names is closed: callers register every permission
// during initialization, then Freeze the registry before use. Bit
// positions are assigned in registration order, so the registration
// sequence is part of the persisted schema and must stay stable across
// releases; new permissions are appended, never inserted.
//
//	Docs: docs/permission.md
type Registry struct {
	mu         sync.RWMutex
	nameToPerm map[string]Permission
	bitToName  map[int]string
	nextBit    int
	frozen     bool
}

// NewRegistry creates an empty permission [Registry].
func NewRegistry() *Registry {
	return &Registry{
		nameToPerm: make(map[string]Permission),
		bitToName:  make(map[int]string),
	}
}

// Register assigns the next available bit to the named permission and
// returns it. Registering more than [MaxNamedBits] simple permissions is
// a definition-time error; the mask never silently wraps.
func (r *Registry) Register(name string) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return 0, ErrRegistryFrozen
	}
	if name == "" {
		return 0, ErrEmptyName
	}
	if _, exists := r.nameToPerm[name]; exists {
		return 0, ErrDuplicatePermission
	}
	if r.nextBit >= MaxNamedBits {
		return 0, ErrPermissionLimit
	}

	p := Permission(1) << r.nextBit
	r.nameToPerm[name] = p
	r.bitToName[r.nextBit] = name
	r.nextBit++

	return p, nil
}

// RegisterComposite registers a named permission that is the union of
// previously registered permissions. Composites do not consume a bit
// position; a Has check on a composite succeeds only when every member
// bit is granted.
func (r *Registry) RegisterComposite(name string, members ...string) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return 0, ErrRegistryFrozen
	}
	if name == "" {
		return 0, ErrEmptyName
	}
	if _, exists := r.nameToPerm[name]; exists {
		return 0, ErrDuplicatePermission
	}
	if len(members) == 0 {
		return 0, errors.New("composite permission requires members")
	}

	var p Permission
	for _, member := range members {
		mp, ok := r.nameToPerm[member]
		if !ok {
			return 0, ErrUnknownPermission
		}
		p |= mp
	}

	r.nameToPerm[name] = p
	return p, nil
}

// Lookup returns the permission registered under name.
func (r *Registry) Lookup(name string) (Permission, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.nameToPerm[name]
	return p, ok
}

// Resolve returns the union of the named permissions, or
// [ErrUnknownPermission] if any name is unregistered.
func (r *Registry) Resolve(names ...string) (Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var p Permission
	for _, name := range names {
		np, ok := r.nameToPerm[name]
		if !ok {
			return 0, ErrUnknownPermission
		}
		p |= np
	}
	return p, nil
}

// NameOf returns the simple permission name assigned to the given bit,
// or false if the bit is unassigned. Composite names have no bit of
// their own and are never returned.
func (r *Registry) NameOf(bit int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// Names returns the simple permission names granted by s in bit order.
// The unrestricted set returns every registered simple name.
func (r *Registry) Names(s Set) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.bitToName))
	for bit := 0; bit < r.nextBit; bit++ {
		name, ok := r.bitToName[bit]
		if !ok {
			continue
		}
		if s.IsUnrestricted() || s.Has(Permission(1)<<bit) {
			names = append(names, name)
		}
	}
	return names
}

// Freeze closes the registry. Registration after Freeze fails with
// [ErrRegistryFrozen].
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered names, composites included.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToPerm)
}

// BitCount returns the number of assigned bit positions.
func (r *Registry) BitCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextBit
}
