package enums

import "fmt"

// CouponStatus is the lifecycle state of a coupon. Coupons are never hard
// deleted; retiring a coupon keeps historical issuances intact.
type CouponStatus string

const (
	CouponStatusActive  CouponStatus = "active"
	CouponStatusRetired CouponStatus = "retired"
)

var validCouponStatuses = []CouponStatus{
	CouponStatusActive,
	CouponStatusRetired,
}

// IsValid reports whether the value matches the canonical coupon status enum.
func (c CouponStatus) IsValid() bool {
	for _, candidate := range validCouponStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCouponStatus converts the raw string to CouponStatus.
func ParseCouponStatus(value string) (CouponStatus, error) {
	for _, candidate := range validCouponStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon status %q", value)
}
