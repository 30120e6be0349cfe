// Package ports defines the contracts between the order engine's use cases and
// its infrastructure.
package ports

import (
	"context"
	"errors"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
)

// ErrOrderNumberTaken is returned by OrderRepository.Add when another order already
// uses the number. The surrounding transaction stays usable.
var ErrOrderNumberTaken = errors.New("order number is already taken")

// OrderRepository persists order aggregates together with their line items.
type OrderRepository interface {
	// Add inserts a new order and its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes status, totals, coupon reference and timestamps of an
	// existing order. Line items are immutable and not rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order with its line items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads an order and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetPendingCreatedBefore returns up to limit PENDING orders created before
	// cutoff, oldest first.
	GetPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)
}
