package model

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleVoter Role = "voter"
)

// Capability names an action gated by role.
type Capability string

const (
	CapManageCandidates Capability = "manage-candidates"
	CapCastVote         Capability = "cast-vote"
	CapManageAccount    Capability = "manage-account"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {CapManageCandidates, CapManageAccount},
	RoleVoter: {CapCastVote, CapManageAccount},
}

// ParseRole maps a signup role string to a Role. An empty string means voter.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleVoter:
		return RoleVoter, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Can reports whether the role grants c. Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}
