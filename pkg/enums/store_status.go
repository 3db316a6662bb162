package enums

import "fmt"

// StoreStatus describes the onboarding lifecycle of a store.
type StoreStatus string

const (
	StoreStatusPending StoreStatus = "pending"
	StoreStatusActive  StoreStatus = "active"
	StoreStatusClosed  StoreStatus = "closed"
)

var validStoreStatuses = []StoreStatus{
	StoreStatusPending,
	StoreStatusActive,
	StoreStatusClosed,
}

// IsValid reports whether the value matches the canonical store status enum.
func (s StoreStatus) IsValid() bool {
	for _, candidate := range validStoreStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStoreStatus converts the raw string to StoreStatus.
func ParseStoreStatus(value string) (StoreStatus, error) {
	for _, candidate := range validStoreStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store status %q", value)
}
