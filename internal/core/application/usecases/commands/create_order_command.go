package commands

import (
	"errors"
	"fmt"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItemInput is one requested cart line.
type OrderItemInput struct {
	MenuItemID kernel.UUID
	Quantity   int
	Notes      string
}

// CreateOrderItem is a validated cart line.
type CreateOrderItem struct {
	MenuItemID kernel.UUID
	Quantity   kernel.Quantity
	Notes      string
}

// CreateOrderCommand is a request to turn a cart into a PENDING order.
// Shape checks (non-empty cart, quantities, duplicates, channel) happen here;
// checks that need the store happen in the handler.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(restaurantID, &customerID, nil, "WELCOME10", "web", "",
//	    []OrderItemInput{{MenuItemID: burgerID, Quantity: 2}})
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	restaurantID  kernel.UUID
	customerID    *kernel.UUID
	addressID     *kernel.UUID
	couponCode    string
	channel       order.Channel
	customerNotes string
	items         []CreateOrderItem

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	restaurantID kernel.UUID,
	customerID, addressID *kernel.UUID,
	couponCode string,
	channel string,
	customerNotes string,
	items []OrderItemInput,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		couponCode:    strings.TrimSpace(couponCode),
		customerNotes: strings.TrimSpace(customerNotes),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRestaurantID(restaurantID),
		cmd.setCustomer(customerID, addressID),
		cmd.setChannel(channel),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c CreateOrderCommand) CustomerID() *kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) AddressID() *kernel.UUID {
	return c.addressID
}

// CouponCode is empty when no coupon was requested.
func (c CreateOrderCommand) CouponCode() string {
	return c.couponCode
}

func (c CreateOrderCommand) Channel() order.Channel {
	return c.channel
}

func (c CreateOrderCommand) CustomerNotes() string {
	return c.customerNotes
}

func (c CreateOrderCommand) Items() []CreateOrderItem {
	items := make([]CreateOrderItem, len(c.items))
	copy(items, c.items)
	return items
}

// MenuItemIDs lists the requested menu items in cart order.
func (c CreateOrderCommand) MenuItemIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(c.items))
	for _, item := range c.items {
		ids = append(ids, item.MenuItemID)
	}
	return ids
}

func (c *CreateOrderCommand) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant id", err)
	}

	c.restaurantID = id
	return nil
}

func (c *CreateOrderCommand) setCustomer(customerID, addressID *kernel.UUID) error {
	if addressID != nil && customerID == nil {
		return errs.NewValidationError("deliveryAddress", "a delivery address requires a customer")
	}

	c.customerID = customerID
	c.addressID = addressID
	return nil
}

func (c *CreateOrderCommand) setChannel(raw string) error {
	channel, err := order.ParseChannel(raw)
	if err != nil {
		return errs.NewValidationError("channel", err.Error())
	}

	c.channel = channel
	return nil
}

func (c *CreateOrderCommand) setItems(inputs []OrderItemInput) error {
	if len(inputs) == 0 {
		return errs.NewValidationError("items", "at least one item is required")
	}

	var verr *errs.ValidationError
	items := make([]CreateOrderItem, 0, len(inputs))
	ids := make([]kernel.UUID, 0, len(inputs))

	for i, in := range inputs {
		field := fmt.Sprintf("items[%d]", i)
		if err := in.MenuItemID.Validate(); err != nil {
			verr = addValidation(verr, field+".menuItemId", "menu item id is required")
			continue
		}
		qty, err := kernel.NewQuantity(in.Quantity)
		if err != nil {
			verr = addValidation(verr, field+".quantity", fmt.Sprintf("quantity must be between 1 and %d, got %d", kernel.MaxQuantity, in.Quantity))
			continue
		}

		ids = append(ids, in.MenuItemID)
		items = append(items, CreateOrderItem{
			MenuItemID: in.MenuItemID,
			Quantity:   qty,
			Notes:      strings.TrimSpace(in.Notes),
		})
	}

	if dups := order.DuplicateMenuItems(ids); len(dups) > 0 {
		verr = addValidation(verr, "items", "duplicate menu items: "+strings.Join(dups, ", "))
	}

	if verr != nil {
		return verr
	}

	c.items = items
	return nil
}

func addValidation(verr *errs.ValidationError, field, message string) *errs.ValidationError {
	if verr == nil {
		return errs.NewValidationError(field, message)
	}
	return verr.Add(field, message)
}
