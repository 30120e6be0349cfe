// Package orderrepo persists order aggregates and their line items with GORM.
package orderrepo

import (
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// NumberIndex is the unique index on order numbers.
const NumberIndex = "idx_orders_number"

// OrderDTO is the row of the orders table. Money columns hold minor units.
type OrderDTO struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RestaurantID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID           *uuid.UUID `gorm:"type:uuid;index"`
	AddressID            *uuid.UUID `gorm:"type:uuid;index"`
	Number               string     `gorm:"size:20;not null;uniqueIndex:idx_orders_number"`
	Channel              string     `gorm:"size:20;not null"`
	Status               int        `gorm:"not null;index"`
	CouponID             *uuid.UUID `gorm:"type:uuid;index"`
	SubtotalMinor        int64      `gorm:"not null;check:chk_orders_subtotal,subtotal_minor >= 0"`
	DiscountMinor        int64      `gorm:"not null;check:chk_orders_discount,discount_minor >= 0"`
	DeliveryFeeMinor     int64      `gorm:"not null"`
	TotalMinor           int64      `gorm:"not null;check:chk_orders_total,total_minor >= 0"`
	EstimatedPrepMinutes int        `gorm:"not null"`
	EtaReadyAt           *time.Time
	CustomerNotes        string `gorm:"type:text"`
	InternalNotes        string `gorm:"type:text"`
	PendingAt            *time.Time
	InProgressAt         *time.Time
	ReadyAt              *time.Time
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	CreatedAt            time.Time `gorm:"not null;index"`
	UpdatedAt            time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is the row of the order_items table. A menu item appears at most
// once per order.
type LineItemDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_menu_item,priority:1"`
	MenuItemID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_items_order_menu_item,priority:2"`
	Position       int       `gorm:"not null"`
	Name           string    `gorm:"size:200;not null"`
	Quantity       int       `gorm:"not null;check:chk_order_items_quantity,quantity >= 1"`
	UnitPriceMinor int64     `gorm:"not null"`
	Notes          string    `gorm:"type:text"`
}

func (LineItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) (OrderDTO, []LineItemDTO) {
	ts := o.Timestamps()
	dto := OrderDTO{
		ID:                   o.ID().Bytes(),
		RestaurantID:         o.RestaurantID().Bytes(),
		CustomerID:           rawPtr(o.CustomerID()),
		AddressID:            rawPtr(o.AddressID()),
		Number:               o.Number().String(),
		Channel:              o.Channel().String(),
		Status:               int(o.Status()),
		CouponID:             rawPtr(o.CouponID()),
		SubtotalMinor:        o.Subtotal().Amount(),
		DiscountMinor:        o.Discount().Amount(),
		DeliveryFeeMinor:     o.DeliveryFee().Amount(),
		TotalMinor:           o.Total().Amount(),
		EstimatedPrepMinutes: o.EstimatedPrepMinutes(),
		EtaReadyAt:           o.EtaReadyAt(),
		CustomerNotes:        o.CustomerNotes(),
		InternalNotes:        o.InternalNotes(),
		PendingAt:            ts.PendingAt,
		InProgressAt:         ts.InProgressAt,
		ReadyAt:              ts.ReadyAt,
		CompletedAt:          ts.CompletedAt,
		CancelledAt:          ts.CancelledAt,
		CreatedAt:            o.CreatedAt(),
	}

	items := make([]LineItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, LineItemDTO{
			ID:             item.ID().Bytes(),
			OrderID:        dto.ID,
			MenuItemID:     item.MenuItemID().Bytes(),
			Position:       i,
			Name:           item.Name(),
			Quantity:       item.Quantity().Int(),
			UnitPriceMinor: item.UnitPrice().Amount(),
			Notes:          item.Notes(),
		})
	}

	return dto, items
}

// mutableColumns are the columns Update may change.
func mutableColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"customer_id":            dto.CustomerID,
		"address_id":             dto.AddressID,
		"status":                 dto.Status,
		"coupon_id":              dto.CouponID,
		"subtotal_minor":         dto.SubtotalMinor,
		"discount_minor":         dto.DiscountMinor,
		"delivery_fee_minor":     dto.DeliveryFeeMinor,
		"total_minor":            dto.TotalMinor,
		"estimated_prep_minutes": dto.EstimatedPrepMinutes,
		"eta_ready_at":           dto.EtaReadyAt,
		"customer_notes":         dto.CustomerNotes,
		"internal_notes":         dto.InternalNotes,
		"pending_at":             dto.PendingAt,
		"in_progress_at":         dto.InProgressAt,
		"ready_at":               dto.ReadyAt,
		"completed_at":           dto.CompletedAt,
		"cancelled_at":           dto.CancelledAt,
	}
}

func toDomain(dto OrderDTO, itemDTOs []LineItemDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromRaw(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	customerID, err := uuidPtr(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	addressID, err := uuidPtr(dto.AddressID)
	if err != nil {
		return nil, err
	}
	couponID, err := uuidPtr(dto.CouponID)
	if err != nil {
		return nil, err
	}
	number, err := order.ParseNumber(dto.Number)
	if err != nil {
		return nil, err
	}

	items := make([]*order.LineItem, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := lineItemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                   id,
		RestaurantID:         restaurantID,
		CustomerID:           customerID,
		AddressID:            addressID,
		Number:               number,
		Channel:              order.Channel(dto.Channel),
		Status:               order.Status(dto.Status),
		Items:                items,
		CouponID:             couponID,
		Subtotal:             kernel.NewMoney(dto.SubtotalMinor),
		Discount:             kernel.NewMoney(dto.DiscountMinor),
		DeliveryFee:          kernel.NewMoney(dto.DeliveryFeeMinor),
		Total:                kernel.NewMoney(dto.TotalMinor),
		EstimatedPrepMinutes: dto.EstimatedPrepMinutes,
		EtaReadyAt:           utcPtr(dto.EtaReadyAt),
		CustomerNotes:        dto.CustomerNotes,
		InternalNotes:        dto.InternalNotes,
		Timestamps: order.Timestamps{
			PendingAt:    utcPtr(dto.PendingAt),
			InProgressAt: utcPtr(dto.InProgressAt),
			ReadyAt:      utcPtr(dto.ReadyAt),
			CompletedAt:  utcPtr(dto.CompletedAt),
			CancelledAt:  utcPtr(dto.CancelledAt),
		},
		CreatedAt: dto.CreatedAt.UTC(),
	})
}

func lineItemToDomain(dto LineItemDTO) (*order.LineItem, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	menuItemID, err := kernel.UUIDFromRaw(dto.MenuItemID)
	if err != nil {
		return nil, err
	}
	qty, err := kernel.NewQuantity(dto.Quantity)
	if err != nil {
		return nil, err
	}
	return order.RestoreLineItem(id, menuItemID, dto.Name, qty, kernel.NewMoney(dto.UnitPriceMinor), dto.Notes)
}

func rawPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func uuidPtr(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromRaw(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
