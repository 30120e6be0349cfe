package queries

import (
	"errors"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

// DefaultListLimit applies when a ListOrdersQuery is built with limit 0.
const DefaultListLimit = 100

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists a restaurant's orders, newest first, optionally only
// those in the given statuses.
type ListOrdersQuery struct {
	restaurantID kernel.UUID
	statuses     []order.Status
	limit        int
	guard        guard.ConstructorGuard
}

// NewListOrdersQuery parses statuses ("PENDING", "READY", ...). An empty list
// means every status.
func NewListOrdersQuery(restaurantID kernel.UUID, statuses []string, limit int) (ListOrdersQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return ListOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause("restaurant id", err)
	}
	if limit < 0 {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, "unbounded")
	}
	if limit == 0 {
		limit = DefaultListLimit
	}

	parsed := make([]order.Status, 0, len(statuses))
	for _, raw := range statuses {
		s, err := order.ParseStatus(raw)
		if err != nil {
			return ListOrdersQuery{}, errs.NewValidationError("status", err.Error())
		}
		parsed = append(parsed, s)
	}

	return ListOrdersQuery{
		restaurantID: restaurantID,
		statuses:     parsed,
		limit:        limit,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) RestaurantID() kernel.UUID {
	return q.restaurantID
}

func (q ListOrdersQuery) Statuses() []order.Status {
	return q.statuses
}

func (q ListOrdersQuery) Limit() int {
	return q.limit
}

// OrderSummaryView is one row of an order list.
type OrderSummaryView struct {
	ID         kernel.UUID
	Number     string
	Status     string
	Channel    string
	Total      int64
	EtaReadyAt *time.Time
	CreatedAt  time.Time
}
