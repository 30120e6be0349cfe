package catalog

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

var ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant or RestoreRestaurant")

// DefaultPrepMinutes applies when a restaurant has no preparation estimate.
const DefaultPrepMinutes = 20

type Restaurant struct {
	id                 kernel.UUID
	name               string
	baseDeliveryFee    kernel.Money
	defaultPrepMinutes int
	active             bool

	isConstructed bool
}

func NewRestaurant(id kernel.UUID, name string, baseDeliveryFee kernel.Money, defaultPrepMinutes int) (*Restaurant, error) {
	return RestoreRestaurant(id, name, baseDeliveryFee, defaultPrepMinutes, true)
}

func RestoreRestaurant(id kernel.UUID, name string, baseDeliveryFee kernel.Money, defaultPrepMinutes int, active bool) (*Restaurant, error) {
	r := &Restaurant{
		baseDeliveryFee: baseDeliveryFee,
		active:          active,
		isConstructed:   true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setDefaultPrepMinutes(defaultPrepMinutes),
	); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Restaurant) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRestaurantIsNotConstructed
	}
	return nil
}

func (r *Restaurant) ID() kernel.UUID {
	return r.id
}

func (r *Restaurant) Name() string {
	return r.name
}

func (r *Restaurant) BaseDeliveryFee() kernel.Money {
	return r.baseDeliveryFee
}

func (r *Restaurant) DefaultPrepMinutes() int {
	return r.defaultPrepMinutes
}

func (r *Restaurant) IsActive() bool {
	return r.active
}

func (r *Restaurant) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Restaurant) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	r.name = name
	return nil
}

func (r *Restaurant) setDefaultPrepMinutes(minutes int) error {
	if minutes < 0 {
		return errs.NewValueIsOutOfRangeError("default prep minutes", minutes, 0, "unbounded")
	}
	if minutes == 0 {
		minutes = DefaultPrepMinutes
	}
	r.defaultPrepMinutes = minutes
	return nil
}
