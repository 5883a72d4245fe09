package domain

import (
	"fmt"
)

// Role is the closed set of business roles known to the workflow and ledger engines.
// Roles arrive as strings at the API boundary and must pass through ParseRole
// before reaching any authorization check.
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleFinance        Role = "FINANCE"
	RoleAccounts       Role = "ACCOUNTS"
	RoleSales          Role = "SALES"
	RoleEngineering    Role = "ENGINEERING"
	RoleProcurement    Role = "PROCUREMENT"
	RoleProjectManager Role = "PROJECT_MANAGER"
)

// knownRoles is the authoritative membership set for ParseRole.
var knownRoles = map[Role]struct{}{
	RoleSuperAdmin:     {},
	RoleFinance:        {},
	RoleAccounts:       {},
	RoleSales:          {},
	RoleEngineering:    {},
	RoleProcurement:    {},
	RoleProjectManager: {},
}

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if _, ok := knownRoles[r]; !ok {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

// IsValid reports whether the role is a member of the closed enumeration.
func (r Role) IsValid() bool {
	_, ok := knownRoles[r]
	return ok
}

// User represents an actor resolved from the user directory.
// The directory is read-only from this service's point of view.
type User struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	AuditFields
}
