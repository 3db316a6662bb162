package enums

import "fmt"

// IssuedCouponStatus tracks whether a claimed coupon has been spent.
type IssuedCouponStatus string

const (
	IssuedCouponStatusUnused IssuedCouponStatus = "unused"
	IssuedCouponStatusUsed   IssuedCouponStatus = "used"
)

var validIssuedCouponStatuses = []IssuedCouponStatus{
	IssuedCouponStatusUnused,
	IssuedCouponStatusUsed,
}

// IsValid reports whether the value matches the canonical issued coupon status enum.
func (i IssuedCouponStatus) IsValid() bool {
	for _, candidate := range validIssuedCouponStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseIssuedCouponStatus converts the raw string to IssuedCouponStatus.
func ParseIssuedCouponStatus(value string) (IssuedCouponStatus, error) {
	for _, candidate := range validIssuedCouponStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid issued coupon status %q", value)
}
