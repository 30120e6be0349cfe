// Package commands contains the operations that change orders.
// Every handler runs inside one unit of work: validation reads, writes and the
// coupon ledger increment commit or roll back together.
package commands

import (
	"context"

	"orderengine/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CouponRepoFactory exposes coupon reads and the usage ledger.
	CouponRepoFactory interface {
		CouponRepository() ports.CouponRepository
		CouponLedger() ports.CouponLedger
	}

	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	// OrderUoW is used by status transitions, which touch only the order.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PricingUoW is used by recomputation, which reads the attached coupon.
	PricingUoW interface {
		TxManager
		OrderRepoFactory
		CouponRepoFactory
	}

	PricingUoWFactory interface {
		Create() PricingUoW
	}

	// UoW spans everything order creation reads and writes.
	//
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   restaurant, err := uow.CatalogRepository().GetRestaurant(ctx, id)
	//   ok, err := uow.CouponLedger().TryIncrement(ctx, couponID, id, now)
	//   err = uow.OrderRepository().Add(ctx, o)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		CouponRepoFactory
		CatalogRepoFactory
		CustomerRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
