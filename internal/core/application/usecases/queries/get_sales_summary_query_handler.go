package queries

import (
	"context"
	"time"

	"orderengine/internal/adapters/out/postgres/pgerrs"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetSalesSummaryQueryHandler struct {
	db    *gorm.DB
	clock kernel.Clock
}

func NewGetSalesSummaryQueryHandler(db *gorm.DB, clock kernel.Clock) GetSalesSummaryQueryHandler {
	return GetSalesSummaryQueryHandler{db: db, clock: clock}
}

type statusCountRow struct {
	Status int
	Orders int64
}

type revenueRow struct {
	CompletedRevenue int64
	TodayRevenue     int64
}

type topItemRow struct {
	MenuItemID uuid.UUID
	Name       string
	Quantity   int64
	Revenue    int64
}

func (h GetSalesSummaryQueryHandler) Handle(ctx context.Context, query GetSalesSummaryQuery) (SalesSummaryView, error) {
	if err := query.Validate(); err != nil {
		return SalesSummaryView{}, err
	}

	db := h.db.WithContext(ctx)
	restaurantID := query.RestaurantID().Bytes()
	now := h.clock.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	summary := SalesSummaryView{
		OrdersByStatus: make(map[string]int64, len(order.AllStatuses())),
		TopItems:       make([]TopItemView, 0, TopItemsLimit),
	}
	for _, s := range order.AllStatuses() {
		summary.OrdersByStatus[s.String()] = 0
	}

	var counts []statusCountRow
	if err := db.Raw(`
		SELECT status, COUNT(*) AS orders
		FROM orders
		WHERE restaurant_id = ?
		GROUP BY status
	`, restaurantID).Scan(&counts).Error; err != nil {
		return SalesSummaryView{}, pgerrs.Translate(err)
	}
	for _, c := range counts {
		summary.OrdersByStatus[order.Status(c.Status).String()] = c.Orders
		summary.TotalOrders += c.Orders
	}

	var revenue revenueRow
	if err := db.Raw(`
		SELECT
			COALESCE(SUM(total_minor), 0) AS completed_revenue,
			COALESCE(SUM(total_minor) FILTER (WHERE created_at >= ? AND created_at < ?), 0) AS today_revenue
		FROM orders
		WHERE restaurant_id = ? AND status = ?
	`, startOfDay, endOfDay, restaurantID, int(order.Completed)).Scan(&revenue).Error; err != nil {
		return SalesSummaryView{}, pgerrs.Translate(err)
	}
	summary.CompletedRevenue = revenue.CompletedRevenue
	summary.TodayRevenue = revenue.TodayRevenue

	var top []topItemRow
	if err := db.Raw(`
		SELECT
			i.menu_item_id,
			MIN(i.name) AS name,
			SUM(i.quantity) AS quantity,
			SUM(i.quantity::bigint * i.unit_price_minor) AS revenue
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.restaurant_id = ? AND o.status = ANY(?)
		GROUP BY i.menu_item_id
		ORDER BY quantity DESC, name
		LIMIT ?
	`, restaurantID, statusArray(sellingStatuses()), TopItemsLimit).Scan(&top).Error; err != nil {
		return SalesSummaryView{}, pgerrs.Translate(err)
	}
	for _, t := range top {
		id, err := kernel.UUIDFromRaw(t.MenuItemID)
		if err != nil {
			return SalesSummaryView{}, err
		}
		summary.TopItems = append(summary.TopItems, TopItemView{
			MenuItemID: id,
			Name:       t.Name,
			Quantity:   t.Quantity,
			Revenue:    t.Revenue,
		})
	}

	return summary, nil
}

// sellingStatuses are the statuses whose items count as sold.
func sellingStatuses() []order.Status {
	statuses := make([]order.Status, 0, len(order.AllStatuses()))
	for _, s := range order.AllStatuses() {
		if s != order.Cancelled {
			statuses = append(statuses, s)
		}
	}
	return statuses
}

