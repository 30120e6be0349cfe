package coupon

import (
	"time"

	"orderengine/internal/core/domain/model/kernel"
)

// Evaluate returns the discount c grants on subtotal at now. A nil or unusable
// coupon grants nothing. The result never exceeds subtotal.
func Evaluate(c *Coupon, subtotal kernel.Money, now time.Time) kernel.Money {
	if c == nil || c.Validate() != nil || !c.IsUsable(now) {
		return kernel.Zero
	}
	return c.DiscountOn(subtotal)
}

// DiscountOn applies the discount rule without checking usability. It prices an
// order whose redemption of c has already been recorded by the usage ledger.
func (c *Coupon) DiscountOn(subtotal kernel.Money) kernel.Money {
	switch c.mode {
	case Percentage:
		return subtotal.Percent(c.percentOff)
	case Fixed:
		return c.amountOff.Min(subtotal)
	default:
		return kernel.Zero
	}
}
