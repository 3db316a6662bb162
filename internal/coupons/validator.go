package coupons

import (
	pkgerrors "github.com/bloombay/store-backend/pkg/errors"
	"github.com/bloombay/store-backend/pkg/types"
)

// Window validation failures. These surface unchanged through Edit/Create all
// the way to the HTTP boundary.
var (
	ErrInvalidDuration  = pkgerrors.New(pkgerrors.CodeValidation, "coupon end date precedes start date")
	ErrInvalidStartDate = pkgerrors.New(pkgerrors.CodeValidation, "coupon start date precedes today")
)

// ValidateWindow checks a proposed validity window against the current date.
// It is pure so create and edit share the exact same rule: the window must be
// well ordered and must not start in the past.
func ValidateWindow(start, end, today types.Date) error {
	if end.Before(start) {
		return ErrInvalidDuration
	}
	if start.Before(today) {
		return ErrInvalidStartDate
	}
	return nil
}
