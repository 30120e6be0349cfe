package catalog

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

var ErrMenuItemIsNotConstructed = errors.New("MenuItem must be created via NewMenuItem or RestoreMenuItem")

// MenuItem is a sellable product of one restaurant. AvgPrepMinutes of zero means
// the restaurant default applies.
type MenuItem struct {
	id             kernel.UUID
	restaurantID   kernel.UUID
	name           string
	price          kernel.Money
	avgPrepMinutes int
	active         bool

	isConstructed bool
}

func NewMenuItem(id, restaurantID kernel.UUID, name string, price kernel.Money, avgPrepMinutes int) (*MenuItem, error) {
	return RestoreMenuItem(id, restaurantID, name, price, avgPrepMinutes, true)
}

func RestoreMenuItem(id, restaurantID kernel.UUID, name string, price kernel.Money, avgPrepMinutes int, active bool) (*MenuItem, error) {
	m := &MenuItem{
		price:         price,
		active:        active,
		isConstructed: true,
	}

	if err := errors.Join(
		m.setID(id),
		m.setRestaurantID(restaurantID),
		m.setName(name),
		m.setAvgPrepMinutes(avgPrepMinutes),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *MenuItem) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMenuItemIsNotConstructed
	}
	return nil
}

func (m *MenuItem) ID() kernel.UUID {
	return m.id
}

func (m *MenuItem) RestaurantID() kernel.UUID {
	return m.restaurantID
}

func (m *MenuItem) Name() string {
	return m.name
}

func (m *MenuItem) Price() kernel.Money {
	return m.price
}

func (m *MenuItem) AvgPrepMinutes() int {
	return m.avgPrepMinutes
}

func (m *MenuItem) IsActive() bool {
	return m.active
}

// IsOrderableFrom reports whether the item can be put on an order of the restaurant.
func (m *MenuItem) IsOrderableFrom(restaurantID kernel.UUID) bool {
	return m.active && m.restaurantID.IsEqual(restaurantID)
}

// PrepMinutes returns the item estimate, or fallback when the item has none.
func (m *MenuItem) PrepMinutes(fallback int) int {
	if m.avgPrepMinutes > 0 {
		return m.avgPrepMinutes
	}
	return fallback
}

func (m *MenuItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *MenuItem) setRestaurantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant", err)
	}
	m.restaurantID = id
	return nil
}

func (m *MenuItem) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	m.name = name
	return nil
}

func (m *MenuItem) setAvgPrepMinutes(minutes int) error {
	if minutes < 0 {
		return errs.NewValueIsOutOfRangeError("avg prep minutes", minutes, 0, "unbounded")
	}
	m.avgPrepMinutes = minutes
	return nil
}
