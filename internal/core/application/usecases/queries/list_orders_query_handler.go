package queries

import (
	"context"
	"strings"
	"time"

	"orderengine/internal/adapters/out/postgres/pgerrs"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummaryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var sql strings.Builder
	sql.WriteString(`
		SELECT id, number, status, channel, total_minor, eta_ready_at, created_at
		FROM orders
		WHERE restaurant_id = ?`)
	args := []any{query.RestaurantID().Bytes()}

	if len(query.Statuses()) > 0 {
		sql.WriteString(` AND status = ANY(?)`)
		args = append(args, statusArray(query.Statuses()))
	}
	sql.WriteString(` ORDER BY created_at DESC, number DESC LIMIT ?`)
	args = append(args, query.Limit())

	rows, err := h.db.WithContext(ctx).Raw(sql.String(), args...).Rows()
	if err != nil {
		return nil, pgerrs.Translate(err)
	}
	defer rows.Close()

	orders := make([]OrderSummaryView, 0)
	for rows.Next() {
		var (
			id         uuid.UUID
			view       OrderSummaryView
			status     int
			etaReadyAt *time.Time
		)
		if err = rows.Scan(&id, &view.Number, &status, &view.Channel, &view.Total, &etaReadyAt, &view.CreatedAt); err != nil {
			return nil, pgerrs.Translate(err)
		}

		orderID, idErr := kernel.UUIDFromRaw(id)
		if idErr != nil {
			return nil, idErr
		}
		view.ID = orderID
		view.Status = order.Status(status).String()
		view.EtaReadyAt = utc(etaReadyAt)
		view.CreatedAt = view.CreatedAt.UTC()
		orders = append(orders, view)
	}

	if err = rows.Err(); err != nil {
		return nil, pgerrs.Translate(err)
	}
	return orders, nil
}

// statusArray binds statuses as a PostgreSQL integer array for ANY(?).
func statusArray(statuses []order.Status) any {
	values := make([]int64, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, int64(s))
	}
	return pq.Array(values)
}
