package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

var ErrCouponIsNotConstructed = errors.New("Coupon must be created via NewPercentageCoupon, NewFixedCoupon or RestoreCoupon")

const maxCodeLength = 50

// Coupon is a discount offered by one restaurant.
type Coupon struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	code         string
	mode         DiscountMode
	percentOff   int
	amountOff    kernel.Money
	maxUses      int
	usageCount   int
	expiresAt    *time.Time
	active       bool

	isConstructed bool
}

// NewPercentageCoupon creates an active coupon taking percentOff percent (0..100)
// of the subtotal. maxUses of zero means unlimited.
func NewPercentageCoupon(
	id, restaurantID kernel.UUID,
	code string,
	percentOff int,
	maxUses int,
	expiresAt *time.Time,
) (*Coupon, error) {
	return RestoreCoupon(id, restaurantID, code, Percentage, percentOff, kernel.Zero, maxUses, 0, expiresAt, true)
}

// NewFixedCoupon creates an active coupon taking a flat amountOff.
func NewFixedCoupon(
	id, restaurantID kernel.UUID,
	code string,
	amountOff kernel.Money,
	maxUses int,
	expiresAt *time.Time,
) (*Coupon, error) {
	return RestoreCoupon(id, restaurantID, code, Fixed, 0, amountOff, maxUses, 0, expiresAt, true)
}

// RestoreCoupon rebuilds a coupon from storage.
func RestoreCoupon(
	id, restaurantID kernel.UUID,
	code string,
	mode DiscountMode,
	percentOff int,
	amountOff kernel.Money,
	maxUses int,
	usageCount int,
	expiresAt *time.Time,
	active bool,
) (*Coupon, error) {
	c := &Coupon{
		amountOff:     amountOff,
		active:        active,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setRestaurantID(restaurantID),
		c.setCode(code),
		c.setMode(mode),
		c.setPercentOff(percentOff),
		c.setUsage(maxUses, usageCount),
	); err != nil {
		return nil, err
	}

	if expiresAt != nil {
		t := expiresAt.UTC()
		c.expiresAt = &t
	}

	return c, nil
}

func (c *Coupon) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCouponIsNotConstructed
	}
	return nil
}

func (c *Coupon) ID() kernel.UUID {
	return c.id
}

func (c *Coupon) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c *Coupon) Code() string {
	return c.code
}

func (c *Coupon) Mode() DiscountMode {
	return c.mode
}

func (c *Coupon) PercentOff() int {
	return c.percentOff
}

func (c *Coupon) AmountOff() kernel.Money {
	return c.amountOff
}

func (c *Coupon) MaxUses() int {
	return c.maxUses
}

func (c *Coupon) UsageCount() int {
	return c.usageCount
}

func (c *Coupon) ExpiresAt() *time.Time {
	return c.expiresAt
}

func (c *Coupon) IsActive() bool {
	return c.active
}

// BelongsTo reports whether the coupon is scoped to the restaurant.
func (c *Coupon) BelongsTo(restaurantID kernel.UUID) bool {
	return c.restaurantID.IsEqual(restaurantID)
}

// IsExpired is true once now has reached the expiry instant.
func (c *Coupon) IsExpired(now time.Time) bool {
	return c.expiresAt != nil && !now.Before(*c.expiresAt)
}

// HasUsesLeft is true for unlimited coupons or while usage is under the cap.
func (c *Coupon) HasUsesLeft() bool {
	return c.maxUses == 0 || c.usageCount < c.maxUses
}

// IsUsable reports whether the coupon may be applied at now.
func (c *Coupon) IsUsable(now time.Time) bool {
	return c.active && !c.IsExpired(now) && c.HasUsesLeft()
}

func (c *Coupon) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Coupon) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant", err)
	}
	c.restaurantID = id
	return nil
}

func (c *Coupon) setCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	if len(code) > maxCodeLength {
		return errs.NewValueIsOutOfRangeError("code length", len(code), 1, maxCodeLength)
	}
	c.code = code
	return nil
}

func (c *Coupon) setMode(mode DiscountMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	c.mode = mode
	return nil
}

func (c *Coupon) setPercentOff(percent int) error {
	if percent < 0 || percent > 100 {
		return errs.NewValueIsOutOfRangeError("percent off", percent, 0, 100)
	}
	c.percentOff = percent
	return nil
}

func (c *Coupon) setUsage(maxUses, usageCount int) error {
	if maxUses < 0 {
		return errs.NewValueIsInvalidErrorWithCause("max uses", fmt.Errorf("%d is negative", maxUses))
	}
	if usageCount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("usage count", fmt.Errorf("%d is negative", usageCount))
	}
	c.maxUses = maxUses
	c.usageCount = usageCount
	return nil
}
