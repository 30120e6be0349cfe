package order

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/pricing"
	"orderengine/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built through NewOrder
	// or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrNumberIsImmutable is returned when renumbering an order loaded from storage.
	ErrNumberIsImmutable = errors.New("order number cannot change once persisted")
)

// Order is the aggregate root of the engine. It owns its line items, its derived
// totals and its status history.
//
// Order follows these invariants:
//   - total = max(subtotal + deliveryFee - discount, 0)
//   - subtotal is the sum of the line totals of the current line items
//   - discount is zero when no coupon is attached
//   - a menu item appears in at most one line item
//   - every status timestamp is set at most once
type Order struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	customerID   *kernel.UUID
	addressID    *kernel.UUID
	number       Number
	channel      Channel
	status       Status

	items []*LineItem

	couponID       *kernel.UUID
	couponRedeemed bool
	totals         pricing.Totals

	estimatedPrepMinutes int
	etaReadyAt           *time.Time

	customerNotes string
	internalNotes string

	timestamps Timestamps
	createdAt  time.Time

	isNew         bool
	isConstructed bool
}

// NewOrder creates an empty PENDING order. deliveryFee is the restaurant's base
// fee at creation time and does not change afterwards.
func NewOrder(
	id, restaurantID kernel.UUID,
	number Number,
	channel Channel,
	deliveryFee kernel.Money,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		isNew:         true,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setRestaurantID(restaurantID),
		o.setNumber(number),
		o.setChannel(channel),
	); err != nil {
		return nil, err
	}

	o.totals = pricing.NewCalculator().Recompute(nil, deliveryFee, nil, now)
	o.timestamps.stamp(Pending, now)

	return o, nil
}

// Snapshot is the stored state of an order, used by RestoreOrder.
type Snapshot struct {
	ID           kernel.UUID
	RestaurantID kernel.UUID
	CustomerID   *kernel.UUID
	AddressID    *kernel.UUID
	Number       Number
	Channel      Channel
	Status       Status
	Items        []*LineItem
	CouponID     *kernel.UUID
	Subtotal     kernel.Money
	Discount     kernel.Money
	DeliveryFee  kernel.Money
	Total        kernel.Money

	EstimatedPrepMinutes int
	EtaReadyAt           *time.Time
	CustomerNotes        string
	InternalNotes        string
	Timestamps           Timestamps
	CreatedAt            time.Time
}

// RestoreOrder rebuilds an order from storage. Stored totals must satisfy the total
// invariant. A stored coupon reference counts as redeemed because creation detaches
// coupons the usage ledger refused.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		customerID:           s.CustomerID,
		addressID:            s.AddressID,
		couponID:             s.CouponID,
		couponRedeemed:       s.CouponID != nil,
		estimatedPrepMinutes: s.EstimatedPrepMinutes,
		etaReadyAt:           s.EtaReadyAt,
		customerNotes:        s.CustomerNotes,
		internalNotes:        s.InternalNotes,
		timestamps:           s.Timestamps,
		createdAt:            s.CreatedAt,
		isConstructed:        true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setRestaurantID(s.RestaurantID),
		o.setNumber(s.Number),
		o.setChannel(s.Channel),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status

	for _, item := range s.Items {
		if err := o.appendItem(item); err != nil {
			return nil, err
		}
	}

	expected := s.Subtotal.Add(s.DeliveryFee).Sub(s.Discount)
	if !expected.IsEqual(s.Total) {
		return nil, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("stored total %s does not match subtotal %s + fee %s - discount %s", s.Total, s.Subtotal, s.DeliveryFee, s.Discount))
	}
	o.totals = pricing.Totals{
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		DeliveryFee:   s.DeliveryFee,
		Total:         s.Total,
		CouponApplied: s.CouponID != nil,
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

func (o *Order) CustomerID() *kernel.UUID {
	return o.customerID
}

func (o *Order) AddressID() *kernel.UUID {
	return o.addressID
}

func (o *Order) Number() Number {
	return o.number
}

func (o *Order) Channel() Channel {
	return o.channel
}

func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the line items in insertion order.
func (o *Order) Items() []*LineItem {
	out := make([]*LineItem, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) CouponID() *kernel.UUID {
	return o.couponID
}

// IsCouponRedeemed reports whether the usage ledger has recorded this order's use
// of its coupon.
func (o *Order) IsCouponRedeemed() bool {
	return o.couponRedeemed
}

func (o *Order) Subtotal() kernel.Money {
	return o.totals.Subtotal
}

func (o *Order) Discount() kernel.Money {
	return o.totals.Discount
}

func (o *Order) DeliveryFee() kernel.Money {
	return o.totals.DeliveryFee
}

func (o *Order) Total() kernel.Money {
	return o.totals.Total
}

func (o *Order) Totals() pricing.Totals {
	return o.totals
}

func (o *Order) EstimatedPrepMinutes() int {
	return o.estimatedPrepMinutes
}

func (o *Order) EtaReadyAt() *time.Time {
	return o.etaReadyAt
}

func (o *Order) CustomerNotes() string {
	return o.customerNotes
}

func (o *Order) InternalNotes() string {
	return o.internalNotes
}

func (o *Order) Timestamps() Timestamps {
	return o.timestamps
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AssignCustomer sets the optional customer and delivery address. An address
// without a customer is rejected; ownership is checked by the caller, which has
// the address entity.
func (o *Order) AssignCustomer(customerID, addressID *kernel.UUID) error {
	if addressID != nil && customerID == nil {
		return errs.NewValidationError("deliveryAddress", "a delivery address requires a customer")
	}
	if customerID != nil {
		if err := customerID.Validate(); err != nil {
			return err
		}
	}
	if addressID != nil {
		if err := addressID.Validate(); err != nil {
			return err
		}
	}
	o.customerID = customerID
	o.addressID = addressID
	return nil
}

// SetNotes records free text from the customer and from staff.
func (o *Order) SetNotes(customerNotes, internalNotes string) {
	o.customerNotes = strings.TrimSpace(customerNotes)
	o.internalNotes = strings.TrimSpace(internalNotes)
}

// AddLineItem appends an item while the order is PENDING and reprices without a
// coupon change. A second line for the same menu item is rejected.
func (o *Order) AddLineItem(item *LineItem, c *coupon.Coupon, now time.Time) error {
	if o.status != Pending {
		return errs.NewConflictError("items", fmt.Sprintf("cannot add items to a %s order", o.status))
	}
	if err := o.appendItem(item); err != nil {
		return err
	}
	return o.Reprice(c, now)
}

// AttachCoupon links a coupon of the same restaurant and reprices. A coupon that is
// not usable at now is not attached and the discount stays zero.
func (o *Order) AttachCoupon(c *coupon.Coupon, now time.Time) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if o.status != Pending {
		return errs.NewConflictError("coupon", fmt.Sprintf("cannot attach a coupon to a %s order", o.status))
	}
	if o.couponRedeemed {
		return errs.NewConflictError("coupon", "order already redeemed a coupon")
	}
	if !c.BelongsTo(o.restaurantID) {
		return errs.NewValidationError("coupon", "coupon does not belong to the order's restaurant")
	}

	id := c.ID()
	o.couponID = &id
	return o.Reprice(c, now)
}

// ConfirmCouponRedemption records that the usage ledger counted this order's use
// of the attached coupon. From then on the discount no longer depends on the
// coupon's usability.
func (o *Order) ConfirmCouponRedemption() error {
	if o.couponID == nil {
		return errs.NewValueIsRequiredError("coupon")
	}
	o.couponRedeemed = true
	return nil
}

// DetachCoupon drops the coupon reference and reprices to a zero discount.
func (o *Order) DetachCoupon(now time.Time) error {
	o.couponID = nil
	o.couponRedeemed = false
	return o.Reprice(nil, now)
}

// Reprice recomputes every monetary field from the current line items, the
// delivery fee and c, which must be the attached coupon or nil. An unredeemed
// coupon that is not usable at now is detached.
func (o *Order) Reprice(c *coupon.Coupon, now time.Time) error {
	if c != nil {
		if o.couponID == nil || !o.couponID.IsEqual(c.ID()) {
			return errs.NewValueIsInvalidErrorWithCause("coupon", fmt.Errorf("coupon %s is not attached to order %s", c.ID(), o.id))
		}
	}

	calc := pricing.NewCalculator()
	lines := o.pricingLines()

	if o.couponRedeemed && c != nil {
		o.totals = calc.RecomputeRedeemed(lines, o.totals.DeliveryFee, c)
		return nil
	}

	o.totals = calc.Recompute(lines, o.totals.DeliveryFee, c, now)
	if !o.totals.CouponApplied {
		o.couponID = nil
		o.couponRedeemed = false
	}
	return nil
}

// ScheduleReady sets the preparation estimate and the instant the order is
// expected to be ready.
func (o *Order) ScheduleReady(prepMinutes int, now time.Time) error {
	if prepMinutes < 0 {
		return errs.NewValueIsOutOfRangeError("prep minutes", prepMinutes, 0, "unbounded")
	}
	eta := now.UTC().Add(time.Duration(prepMinutes) * time.Minute)
	o.estimatedPrepMinutes = prepMinutes
	o.etaReadyAt = &eta
	return nil
}

// Renumber replaces the number of an order that has not been loaded from storage.
// It is used when the store rejects a colliding number before commit.
func (o *Order) Renumber(n Number) error {
	if !o.isNew {
		return ErrNumberIsImmutable
	}
	return o.setNumber(n)
}

// TransitionTo moves the order to next and stamps next's timestamp if unset.
// Moving to the current status changes nothing. Illegal moves return a
// ConflictError.
func (o *Order) TransitionTo(next Status, now time.Time) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if next == o.status {
		return nil
	}

	newStatus, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.timestamps.stamp(newStatus, now)
	return nil
}

// Cancel is TransitionTo(Cancelled, now).
func (o *Order) Cancel(now time.Time) error {
	return o.TransitionTo(Cancelled, now)
}

func (o *Order) appendItem(item *LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	for _, existing := range o.items {
		if existing.MenuItemID().IsEqual(item.MenuItemID()) {
			return errs.NewValidationError("items", fmt.Sprintf("duplicate menu items: %s", item.MenuItemID()))
		}
	}
	o.items = append(o.items, item)
	return nil
}

func (o *Order) pricingLines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(o.items))
	for _, item := range o.items {
		lines = append(lines, item)
	}
	return lines
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant", err)
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setNumber(n Number) error {
	if n.IsZero() {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = n
	return nil
}

func (o *Order) setChannel(c Channel) error {
	if err := c.Validate(); err != nil {
		return err
	}
	o.channel = c
	return nil
}

// DuplicateMenuItems returns the ids that occur more than once, sorted.
func DuplicateMenuItems(ids []kernel.UUID) []string {
	seen := make(map[kernel.UUID]int, len(ids))
	for _, id := range ids {
		seen[id]++
	}
	var dups []string
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id.String())
		}
	}
	sort.Strings(dups)
	return dups
}
