package orderrepo

import (
	"context"
	"errors"
	"time"

	"orderengine/internal/adapters/out/postgres/pgerrs"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its line items in a nested transaction, which GORM
// runs as a savepoint when db is already inside one. A number collision rolls
// back to the savepoint and returns ports.ErrOrderNumberTaken.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dto).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		if pgerrs.IsUniqueViolation(err, NumberIndex) {
			return ports.ErrOrderNumberTaken
		}
		return pgerrs.Translate(err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the mutable columns. Line items are never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, _ := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(mutableColumns(dto))
	if result.Error != nil {
		return pgerrs.Translate(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate takes a row lock (SELECT ... FOR UPDATE) held until the
// transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) GetPendingCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", int(order.Pending), cutoff).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, pgerrs.Translate(err)
	}
	if len(dtos) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	itemsByOrder, err := r.loadItems(ctx, ids...)
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto, itemsByOrder[dto.ID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerrs.Translate(err)
	}

	items, err := r.loadItems(ctx, dto.ID)
	if err != nil {
		return nil, err
	}

	return toDomain(dto, items[dto.ID])
}

func (r *GormOrderRepository) loadItems(ctx context.Context, orderIDs ...uuid.UUID) (map[uuid.UUID][]LineItemDTO, error) {
	var items []LineItemDTO
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("order_id, position").
		Find(&items).Error
	if err != nil {
		return nil, pgerrs.Translate(err)
	}

	byOrder := make(map[uuid.UUID][]LineItemDTO, len(orderIDs))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	return byOrder, nil
}
