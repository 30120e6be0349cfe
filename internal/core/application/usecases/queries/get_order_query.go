// Package queries contains the read side: order views and sales figures read
// straight from PostgreSQL with raw SQL, bypassing the aggregates.
package queries

import (
	"errors"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches the read model of one order.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	view, err := handler.Handle(ctx, query)
//	fmt.Printf("%s %s total=%d\n", view.Number, view.Status, view.Total)
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("order id", err)
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderView is what callers see of an order. Money fields are minor units.
type OrderView struct {
	ID                   kernel.UUID
	RestaurantID         kernel.UUID
	CustomerID           *kernel.UUID
	AddressID            *kernel.UUID
	Number               string
	Status               string
	Channel              string
	Subtotal             int64
	Discount             int64
	DeliveryFee          int64
	Total                int64
	EstimatedPrepMinutes int
	EtaReadyAt           *time.Time
	CustomerNotes        string
	Timestamps           StatusTimestampsView
	CreatedAt            time.Time
	Items                []OrderItemView
	Coupon               *CouponView
}

// StatusTimestampsView holds the first arrival in each status; nil when the
// order never entered it.
type StatusTimestampsView struct {
	PendingAt    *time.Time
	InProgressAt *time.Time
	ReadyAt      *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time
}

type OrderItemView struct {
	MenuItemID kernel.UUID
	Name       string
	Quantity   int
	UnitPrice  int64
	LineTotal  int64
	Notes      string
}

// CouponView describes the attached coupon as of the query time.
type CouponView struct {
	Code      string
	IsExpired bool
	IsUsable  bool
}
