// Copyright (c) 2026 QuickShift. All rights reserved.

package sec

// # User Roles

// Role represents a permission tier granted to an account.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "ADMIN"

	// Default role: can browse and apply to shifts
	RoleWorker Role = "WORKER"

	// Can create companies and post shifts through them
	RoleEmployer Role = "EMPLOYER"

	// Can manage a company's shifts, applicants, and members
	RoleCompanyAdmin Role = "COMPANYADMIN"
)

// AllRoles lists every role known to the platform.
var AllRoles = []Role{RoleAdmin, RoleWorker, RoleEmployer, RoleCompanyAdmin}

// IsValid reports whether the role is one of the known enumeration values.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleWorker, RoleEmployer, RoleCompanyAdmin:
		return true
	}
	return false
}

// # Role Sets

// RoleSet is the collection of roles held by a single account.
//
// QuickShift roles are independent capabilities rather than a hierarchy: a
// user may be both a WORKER and an EMPLOYER at the same time. Authorization
// is therefore set containment, never level comparison.
type RoleSet []Role

// Has reports whether the set contains the target role.
func (s RoleSet) Has(target Role) bool {
	for _, role := range s {
		if role == target {
			return true
		}
	}
	return false
}

// HasAny reports whether the set contains at least one of the target roles.
func (s RoleSet) HasAny(targets ...Role) bool {
	for _, target := range targets {
		if s.Has(target) {
			return true
		}
	}
	return false
}

// Add returns a set containing the target role, without duplicates.
func (s RoleSet) Add(target Role) RoleSet {
	if s.Has(target) {
		return s
	}
	return append(s, target)
}

// Strings converts the set to its string representation for storage and claims.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, role := range s {
		out[i] = string(role)
	}
	return out
}

// RolesFromStrings rebuilds a [RoleSet] from stored string values.
// Unknown values are dropped rather than carried as dead weight.
func RolesFromStrings(values []string) RoleSet {
	set := make(RoleSet, 0, len(values))
	for _, value := range values {
		role := Role(value)
		if role.IsValid() {
			set = set.Add(role)
		}
	}
	return set
}
