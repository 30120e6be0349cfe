// Package customer holds the customer and delivery address an order may refer to.
package customer

import (
	"errors"
	"strings"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

var (
	ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer")
	ErrAddressIsNotConstructed  = errors.New("Address must be created via NewAddress")
)

type Customer struct {
	id    kernel.UUID
	name  string
	phone string

	isConstructed bool
}

func NewCustomer(id kernel.UUID, name, phone string) (*Customer, error) {
	c := &Customer{
		phone:         strings.TrimSpace(phone),
		isConstructed: true,
	}

	if err := id.Validate(); err != nil {
		return nil, err
	}
	c.id = id

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	c.name = name

	return c, nil
}

func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

func (c *Customer) ID() kernel.UUID {
	return c.id
}

func (c *Customer) Name() string {
	return c.name
}

func (c *Customer) Phone() string {
	return c.phone
}

// Address is a delivery address owned by exactly one customer.
type Address struct {
	id         kernel.UUID
	customerID kernel.UUID
	line       string

	isConstructed bool
}

func NewAddress(id, customerID kernel.UUID, line string) (*Address, error) {
	a := &Address{isConstructed: true}

	if err := errors.Join(id.Validate(), customerID.Validate()); err != nil {
		return nil, err
	}
	a.id = id
	a.customerID = customerID

	line = strings.TrimSpace(line)
	if line == "" {
		return nil, errs.NewValueIsRequiredError("address line")
	}
	a.line = line

	return a, nil
}

func (a *Address) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAddressIsNotConstructed
	}
	return nil
}

func (a *Address) ID() kernel.UUID {
	return a.id
}

func (a *Address) CustomerID() kernel.UUID {
	return a.customerID
}

func (a *Address) Line() string {
	return a.line
}

// IsOwnedBy reports whether the address belongs to the customer.
func (a *Address) IsOwnedBy(customerID kernel.UUID) bool {
	return a.customerID.IsEqual(customerID)
}
