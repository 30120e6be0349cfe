// Package pricing derives order totals from line items, the delivery fee and an
// optional coupon.
package pricing

import (
	"time"

	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"
)

// Line is anything that contributes a line total to the subtotal.
type Line interface {
	LineTotal() kernel.Money
}

// Totals is the full set of derived monetary fields of an order.
//
// Total = max(Subtotal + DeliveryFee - Discount, 0). CouponApplied is false when
// no coupon was supplied or it was not usable at the pricing instant; Discount is
// zero in that case.
type Totals struct {
	Subtotal      kernel.Money
	Discount      kernel.Money
	DeliveryFee   kernel.Money
	Total         kernel.Money
	CouponApplied bool
}

// Calculator recomputes totals from scratch. It has no state and repeated calls
// with the same inputs return the same Totals.
type Calculator struct{}

func NewCalculator() Calculator {
	return Calculator{}
}

// Recompute sums the line totals, evaluates the coupon against the subtotal and
// derives the grand total.
func (Calculator) Recompute(lines []Line, deliveryFee kernel.Money, c *coupon.Coupon, now time.Time) Totals {
	subtotal := sumLines(lines)

	applied := c != nil && c.Validate() == nil && c.IsUsable(now)
	discount := kernel.Zero
	if applied {
		discount = coupon.Evaluate(c, subtotal, now)
	}

	return newTotals(subtotal, discount, deliveryFee, applied)
}

// RecomputeRedeemed prices lines with a coupon whose use has already been
// recorded for the order. The discount rule applies even if the coupon has since
// expired or reached its cap.
func (Calculator) RecomputeRedeemed(lines []Line, deliveryFee kernel.Money, c *coupon.Coupon) Totals {
	subtotal := sumLines(lines)

	applied := c != nil && c.Validate() == nil
	discount := kernel.Zero
	if applied {
		discount = c.DiscountOn(subtotal)
	}

	return newTotals(subtotal, discount, deliveryFee, applied)
}

func sumLines(lines []Line) kernel.Money {
	subtotal := kernel.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	return subtotal
}

func newTotals(subtotal, discount, deliveryFee kernel.Money, applied bool) Totals {
	return Totals{
		Subtotal:      subtotal,
		Discount:      discount,
		DeliveryFee:   deliveryFee,
		Total:         subtotal.Add(deliveryFee).Sub(discount),
		CouponApplied: applied,
	}
}
