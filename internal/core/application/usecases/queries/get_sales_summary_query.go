package queries

import (
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

// TopItemsLimit is how many best sellers a sales summary lists.
const TopItemsLimit = 5

var ErrGetSalesSummaryQueryIsNotConstructed = errors.New(
	"GetSalesSummaryQuery must be created via NewGetSalesSummaryQuery constructor",
)

// GetSalesSummaryQuery computes the KPI panel of one restaurant.
type GetSalesSummaryQuery struct {
	restaurantID kernel.UUID
	guard        guard.ConstructorGuard
}

func NewGetSalesSummaryQuery(restaurantID kernel.UUID) (GetSalesSummaryQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return GetSalesSummaryQuery{}, errs.NewValueIsRequiredErrorWithCause("restaurant id", err)
	}
	return GetSalesSummaryQuery{restaurantID: restaurantID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetSalesSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetSalesSummaryQueryIsNotConstructed)
}

func (q GetSalesSummaryQuery) RestaurantID() kernel.UUID {
	return q.restaurantID
}

// SalesSummaryView aggregates a restaurant's orders. Revenue counts COMPLETED
// orders only. TodayRevenue takes those created during the current UTC day.
type SalesSummaryView struct {
	TotalOrders      int64
	CompletedRevenue int64
	TodayRevenue     int64
	OrdersByStatus   map[string]int64
	TopItems         []TopItemView
}

// TopItemView is a best seller by quantity, cancelled orders excluded. Revenue
// is the sum of its line totals in minor units.
type TopItemView struct {
	MenuItemID kernel.UUID
	Name       string
	Quantity   int64
	Revenue    int64
}
