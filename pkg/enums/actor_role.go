package enums

import "fmt"

// ActorRole is the authenticated principal's role carried in the access token.
type ActorRole string

const (
	ActorRoleCustomer ActorRole = "customer"
	ActorRoleOwner    ActorRole = "owner"
	ActorRoleService  ActorRole = "service"
)

var validActorRoles = []ActorRole{
	ActorRoleCustomer,
	ActorRoleOwner,
	ActorRoleService,
}

// IsValid reports whether the value matches the canonical actor role enum.
func (a ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActorRole converts the raw string to ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
