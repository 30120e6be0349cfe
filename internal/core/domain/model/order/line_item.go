package order

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
)

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem or RestoreLineItem")

// LineItem is a quantity of one menu item at the unit price captured when the
// order was created. It is immutable; later catalog price changes do not affect it.
type LineItem struct {
	id         kernel.UUID
	menuItemID kernel.UUID
	name       string
	quantity   kernel.Quantity
	unitPrice  kernel.Money
	notes      string

	isConstructed bool
}

func NewLineItem(menuItemID kernel.UUID, name string, quantity kernel.Quantity, unitPrice kernel.Money, notes string) (*LineItem, error) {
	return RestoreLineItem(kernel.NewUUID(), menuItemID, name, quantity, unitPrice, notes)
}

func RestoreLineItem(id, menuItemID kernel.UUID, name string, quantity kernel.Quantity, unitPrice kernel.Money, notes string) (*LineItem, error) {
	if err := errors.Join(id.Validate(), menuItemID.Validate(), quantity.Validate()); err != nil {
		return nil, err
	}

	return &LineItem{
		id:            id,
		menuItemID:    menuItemID,
		name:          strings.TrimSpace(name),
		quantity:      quantity,
		unitPrice:     unitPrice,
		notes:         strings.TrimSpace(notes),
		isConstructed: true,
	}, nil
}

func (l *LineItem) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

func (l *LineItem) ID() kernel.UUID {
	return l.id
}

func (l *LineItem) MenuItemID() kernel.UUID {
	return l.menuItemID
}

func (l *LineItem) Name() string {
	return l.name
}

func (l *LineItem) Quantity() kernel.Quantity {
	return l.quantity
}

func (l *LineItem) UnitPrice() kernel.Money {
	return l.unitPrice
}

func (l *LineItem) Notes() string {
	return l.notes
}

// LineTotal is unit price times quantity.
func (l *LineItem) LineTotal() kernel.Money {
	return l.unitPrice.Mul(l.quantity)
}
