package core

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Stable role identifiers shared with signer tooling. RoleDefaultAdmin is
// the zero hash and administers every other role.
var (
	RoleDefaultAdmin = common.Hash{}
	RoleSigner       = crypto.Keccak256Hash([]byte("SIGNER_ROLE"))
	RoleUpgrader     = crypto.Keccak256Hash([]byte("UPGRADER_ROLE"))
)

// HasRole reports whether a principal holds a role. Pure read.
func (e *Engine) HasRole(role common.Hash, principal common.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasRole(role, principal)
}

// GrantRole adds a principal to a role's membership set. Only holders of
// the admin role may grant.
func (e *Engine) GrantRole(caller common.Address, role common.Hash, principal common.Address) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if !e.hasRole(RoleDefaultAdmin, caller) {
		return nil, &AuthorizationError{Role: RoleDefaultAdmin, Principal: caller}
	}
	return []Event{e.grantRole(role, principal, caller)}, nil
}

// RevokeRole removes a principal from a role's membership set. Only holders
// of the admin role may revoke.
func (e *Engine) RevokeRole(caller common.Address, role common.Hash, principal common.Address) ([]Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, ErrNotInitialized
	}
	if !e.hasRole(RoleDefaultAdmin, caller) {
		return nil, &AuthorizationError{Role: RoleDefaultAdmin, Principal: caller}
	}
	if members, ok := e.roles[role]; ok {
		delete(members, principal)
	}
	return []Event{RoleRevokedEvent{Role: role, Principal: principal, RevokedBy: caller}}, nil
}

func (e *Engine) hasRole(role common.Hash, principal common.Address) bool {
	members, ok := e.roles[role]
	if !ok {
		return false
	}
	_, ok = members[principal]
	return ok
}

func (e *Engine) grantRole(role common.Hash, principal, by common.Address) Event {
	members, ok := e.roles[role]
	if !ok {
		members = make(map[common.Address]struct{})
		e.roles[role] = members
	}
	members[principal] = struct{}{}
	return RoleGrantedEvent{Role: role, Principal: principal, GrantedBy: by}
}

// requireRole is the explicit authorization check every gated operation
// runs first, with the caller's mutex already held.
func (e *Engine) requireRole(role common.Hash, principal common.Address) error {
	if !e.hasRole(role, principal) {
		return &AuthorizationError{Role: role, Principal: principal}
	}
	return nil
}
