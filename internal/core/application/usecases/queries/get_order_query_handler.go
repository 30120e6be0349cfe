package queries

import (
	"context"
	"time"

	"orderengine/internal/adapters/out/postgres/pgerrs"
	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order, its lines and its coupon. Coupon flags
// are evaluated against the handler's clock.
type GetOrderQueryHandler struct {
	db    *gorm.DB
	clock kernel.Clock
}

func NewGetOrderQueryHandler(db *gorm.DB, clock kernel.Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, clock: clock}
}

type orderRow struct {
	ID                   uuid.UUID
	RestaurantID         uuid.UUID
	CustomerID           *uuid.UUID
	AddressID            *uuid.UUID
	Number               string
	Status               int
	Channel              string
	SubtotalMinor        int64
	DiscountMinor        int64
	DeliveryFeeMinor     int64
	TotalMinor           int64
	EstimatedPrepMinutes int
	EtaReadyAt           *time.Time
	CustomerNotes        string
	PendingAt            *time.Time
	InProgressAt         *time.Time
	ReadyAt              *time.Time
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	CreatedAt            time.Time

	CouponID         *uuid.UUID
	CouponCode       *string
	CouponMode       *string
	CouponMaxUses    *int
	CouponUsageCount *int
	CouponExpiresAt  *time.Time
	CouponIsActive   *bool
}

type orderItemRow struct {
	MenuItemID     uuid.UUID
	Name           string
	Quantity       int
	UnitPriceMinor int64
	Notes          string
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	db := h.db.WithContext(ctx)

	var row orderRow
	result := db.Raw(`
		SELECT
			o.id, o.restaurant_id, o.customer_id, o.address_id,
			o.number, o.status, o.channel,
			o.subtotal_minor, o.discount_minor, o.delivery_fee_minor, o.total_minor,
			o.estimated_prep_minutes, o.eta_ready_at, o.customer_notes,
			o.pending_at, o.in_progress_at, o.ready_at, o.completed_at, o.cancelled_at,
			o.created_at,
			c.id          AS coupon_id,
			c.code        AS coupon_code,
			c.mode        AS coupon_mode,
			c.max_uses    AS coupon_max_uses,
			c.usage_count AS coupon_usage_count,
			c.expires_at  AS coupon_expires_at,
			c.is_active   AS coupon_is_active
		FROM orders o
		LEFT JOIN coupons c ON c.id = o.coupon_id
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Scan(&row)
	if result.Error != nil {
		return OrderView{}, pgerrs.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	var items []orderItemRow
	if err := db.Raw(`
		SELECT menu_item_id, name, quantity, unit_price_minor, notes
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, row.ID).Scan(&items).Error; err != nil {
		return OrderView{}, pgerrs.Translate(err)
	}

	return h.toView(row, items)
}

func (h GetOrderQueryHandler) toView(row orderRow, items []orderItemRow) (OrderView, error) {
	id, err := kernel.UUIDFromRaw(row.ID)
	if err != nil {
		return OrderView{}, err
	}
	restaurantID, err := kernel.UUIDFromRaw(row.RestaurantID)
	if err != nil {
		return OrderView{}, err
	}

	view := OrderView{
		ID:                   id,
		RestaurantID:         restaurantID,
		CustomerID:           optionalUUID(row.CustomerID),
		AddressID:            optionalUUID(row.AddressID),
		Number:               row.Number,
		Status:               order.Status(row.Status).String(),
		Channel:              row.Channel,
		Subtotal:             row.SubtotalMinor,
		Discount:             row.DiscountMinor,
		DeliveryFee:          row.DeliveryFeeMinor,
		Total:                row.TotalMinor,
		EstimatedPrepMinutes: row.EstimatedPrepMinutes,
		EtaReadyAt:           utc(row.EtaReadyAt),
		CustomerNotes:        row.CustomerNotes,
		Timestamps: StatusTimestampsView{
			PendingAt:    utc(row.PendingAt),
			InProgressAt: utc(row.InProgressAt),
			ReadyAt:      utc(row.ReadyAt),
			CompletedAt:  utc(row.CompletedAt),
			CancelledAt:  utc(row.CancelledAt),
		},
		CreatedAt: row.CreatedAt.UTC(),
		Items:     make([]OrderItemView, 0, len(items)),
	}

	for _, item := range items {
		menuItemID, err := kernel.UUIDFromRaw(item.MenuItemID)
		if err != nil {
			return OrderView{}, err
		}
		qty, err := kernel.NewQuantity(item.Quantity)
		if err != nil {
			return OrderView{}, err
		}
		view.Items = append(view.Items, OrderItemView{
			MenuItemID: menuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPriceMinor,
			LineTotal:  kernel.NewMoney(item.UnitPriceMinor).Mul(qty).Amount(),
			Notes:      item.Notes,
		})
	}

	if row.CouponCode != nil {
		view.Coupon = h.couponView(row)
	}
	return view, nil
}

// couponView evaluates the usability rules of the coupon package on the joined
// columns. Discount amounts do not matter for the flags.
func (h GetOrderQueryHandler) couponView(row orderRow) *CouponView {
	now := h.clock.Now()
	view := &CouponView{Code: *row.CouponCode}

	couponID, idErr := kernel.UUIDFromRaw(*row.CouponID)
	restaurantID, restErr := kernel.UUIDFromRaw(row.RestaurantID)
	mode, modeErr := coupon.ParseDiscountMode(*row.CouponMode)
	if idErr != nil || restErr != nil || modeErr != nil {
		return view
	}

	c, err := coupon.RestoreCoupon(couponID, restaurantID, *row.CouponCode, mode, 0, kernel.Zero,
		*row.CouponMaxUses, *row.CouponUsageCount, row.CouponExpiresAt, *row.CouponIsActive)
	if err != nil {
		return view
	}

	view.IsExpired = c.IsExpired(now)
	view.IsUsable = c.IsUsable(now)
	return view
}

func optionalUUID(raw *uuid.UUID) *kernel.UUID {
	if raw == nil {
		return nil
	}
	id, err := kernel.UUIDFromRaw(*raw)
	if err != nil {
		return nil
	}
	return &id
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
