// Package postgres provides the GORM Unit of Work and schema migration of the
// order engine.
//
// A unit of work wraps one database transaction. Repositories obtained after
// Begin share that transaction, so validation reads, the order insert and the
// coupon ledger increment of an order creation commit or roll back together.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction and is
// otherwise harmless, which is what the deferred call above relies on.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"orderengine/internal/adapters/out/postgres/catalogrepo"
	"orderengine/internal/adapters/out/postgres/couponrepo"
	"orderengine/internal/adapters/out/postgres/customerrepo"
	"orderengine/internal/adapters/out/postgres/orderrepo"
	"orderengine/internal/adapters/out/postgres/pgerrs"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	isolation sql.IsolationLevel
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory uses the database default isolation (READ COMMITTED
// on PostgreSQL), which the coupon ledger's conditional update is correct under.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		isolation: sql.LevelDefault,
		logger:    slog.New(slog.DiscardHandler),
	}
}

// WithIsolation returns a factory whose transactions run at level.
func (f *GormUnitOfWorkFactory) WithIsolation(level sql.IsolationLevel) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: f.db, isolation: level, logger: f.logger}
}

// WithLogger returns a factory whose units log the aggregates they commit.
func (f *GormUnitOfWorkFactory) WithLogger(logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        f.db,
		isolation: f.isolation,
		logger:    logger.With("component", "unit_of_work"),
	}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		isolation:         f.isolation,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one transaction and records the aggregates written
// in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	isolation         sql.IsolationLevel
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. A second call while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	var opts []*sql.TxOptions
	if uow.isolation != sql.LevelDefault {
		opts = append(opts, &sql.TxOptions{Isolation: uow.isolation})
	}

	tx := uow.db.WithContext(ctx).Begin(opts...)
	if tx.Error != nil {
		return pgerrs.Translate(tx.Error)
	}

	uow.tx = tx
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit finalizes the transaction and logs the aggregates written in it.
// Serialization failures surface as errs.TransientStoreError.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return pgerrs.Translate(err)
	}

	if len(uow.trackedAggregates) > 0 {
		uow.logger.DebugContext(ctx, "unit of work committed", "aggregate_ids", uow.committedIDs())
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction and the tracked aggregates.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CouponRepository() ports.CouponRepository {
	return couponrepo.NewGormCouponRepository(uow.conn())
}

func (uow *GormUnitOfWork) CouponLedger() ports.CouponLedger {
	return couponrepo.NewGormCouponLedger(uow.conn())
}

func (uow *GormUnitOfWork) CatalogRepository() ports.CatalogRepository {
	return catalogrepo.NewGormCatalogRepository(uow.conn())
}

func (uow *GormUnitOfWork) CustomerRepository() ports.CustomerRepository {
	return customerrepo.NewGormCustomerRepository(uow.conn())
}

// TrackAggregate is called by repositories after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) committedIDs() []string {
	ids := make([]string, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		ids = append(ids, t.ID.String())
	}
	return ids
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
