package ports

import (
	"context"

	"orderengine/internal/core/domain/model/customer"
	"orderengine/internal/core/domain/model/kernel"
)

type CustomerRepository interface {
	AddCustomer(ctx context.Context, c *customer.Customer) error
	AddAddress(ctx context.Context, a *customer.Address) error
	GetCustomer(ctx context.Context, id kernel.UUID) (*customer.Customer, error)
	GetAddress(ctx context.Context, id kernel.UUID) (*customer.Address, error)
}
