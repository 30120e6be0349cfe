package coupon

import (
	"fmt"

	"orderengine/internal/pkg/errs"
)

// DiscountMode selects how a coupon reduces the subtotal.
type DiscountMode int

const (
	UnknownMode DiscountMode = iota

	// Percentage takes floor(subtotal * percent / 100).
	Percentage

	// Fixed takes a flat amount, never more than the subtotal.
	Fixed
)

func getModeStrings() map[DiscountMode]string {
	return map[DiscountMode]string{
		UnknownMode: "unknown",
		Percentage:  "percent",
		Fixed:       "fixed",
	}
}

func (m DiscountMode) String() string {
	if str, ok := getModeStrings()[m]; ok {
		return str
	}
	return "unknown"
}

func (m DiscountMode) Validate() error {
	if m != Percentage && m != Fixed {
		return errs.NewValueIsInvalidErrorWithCause("discount mode", fmt.Errorf("%d is not a valid discount mode", m))
	}
	return nil
}

// ParseDiscountMode accepts the names returned by String.
func ParseDiscountMode(s string) (DiscountMode, error) {
	for mode, str := range getModeStrings() {
		if mode != UnknownMode && str == s {
			return mode, nil
		}
	}
	return UnknownMode, errs.NewValueIsInvalidErrorWithCause("discount mode", fmt.Errorf("%q is not a valid discount mode", s))
}
