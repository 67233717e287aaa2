// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # Caller Roles

// Role is the closed set of caller roles. The zero value is not a valid role,
// so a Role obtained from [ParseRole] is always one of the declared constants.
type Role uint8

const (
	// RoleAdmin is an operator of the page builder; may act on any page.
	RoleAdmin Role = iota + 1

	// RoleUser is a customer; acts only on the page bound to their account.
	RoleUser
)

// ParseRole converts the wire name of a role into a [Role].
// Unknown names are rejected rather than mapped to a default.
func ParseRole(name string) (Role, error) {
	switch name {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	default:
		return 0, fmt.Errorf("sec: unknown role %q", name)
	}
}

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "invalid"
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}
