// Package types provides type definitions for structured data used throughout the hiring-funnel system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// RoleLevel is the seniority tier a candidate is being evaluated for.
// The zero value means the level was not supplied.
type RoleLevel string

// Supported role levels
const (
	RoleUnset       RoleLevel = ""
	RoleIntern      RoleLevel = "intern"
	RoleEntry       RoleLevel = "entry"
	RoleAssociatePM RoleLevel = "associate_pm"
	RoleMid         RoleLevel = "mid"
	RoleSenior      RoleLevel = "senior"
	RoleStaff       RoleLevel = "staff"
	RolePrincipal   RoleLevel = "principal"
	RoleExecutive   RoleLevel = "executive"
)

// AllRoleLevels lists every non-empty role level in ascending seniority.
var AllRoleLevels = []RoleLevel{
	RoleIntern, RoleEntry, RoleAssociatePM, RoleMid,
	RoleSenior, RoleStaff, RolePrincipal, RoleExecutive,
}

var roleLevelAliases = map[string]RoleLevel{
	"":             RoleUnset,
	"intern":       RoleIntern,
	"internship":   RoleIntern,
	"entry":        RoleEntry,
	"entry_level":  RoleEntry,
	"junior":       RoleEntry,
	"associate_pm": RoleAssociatePM,
	"apm":          RoleAssociatePM,
	"mid":          RoleMid,
	"mid_level":    RoleMid,
	"senior":       RoleSenior,
	"staff":        RoleStaff,
	"principal":    RolePrincipal,
	"executive":    RoleExecutive,
}

// ParseRoleLevel converts a user-supplied string into a RoleLevel.
// Matching is case-insensitive and treats '-' and ' ' like '_'.
func ParseRoleLevel(s string) (RoleLevel, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if level, ok := roleLevelAliases[key]; ok {
		return level, nil
	}
	return RoleUnset, fmt.Errorf("unknown role level %q", s)
}

// IsSeniorOrAbove reports whether the level is senior, staff, principal or executive.
func (r RoleLevel) IsSeniorOrAbove() bool {
	switch r {
	case RoleSenior, RoleStaff, RolePrincipal, RoleExecutive:
		return true
	default:
		return false
	}
}

// Label returns a human-readable name for the level.
func (r RoleLevel) Label() string {
	switch r {
	case RoleUnset:
		return "unspecified"
	case RoleAssociatePM:
		return "associate PM"
	default:
		return string(r)
	}
}
