package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderengine/internal/core/domain/model/coupon"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
)

// RecomputeOrderTotalsCommandHandler reprices an order from its stored lines,
// delivery fee and coupon. Running it twice yields the same totals.
type RecomputeOrderTotalsCommandHandler struct {
	uowFactory PricingUoWFactory
	clock      kernel.Clock
	retry      RetryPolicy
	logger     *slog.Logger
}

func NewRecomputeOrderTotalsCommandHandler(
	uowFactory PricingUoWFactory,
	clock kernel.Clock,
	logger *slog.Logger,
) RecomputeOrderTotalsCommandHandler {
	return RecomputeOrderTotalsCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		retry:      DefaultRetryPolicy(),
		logger:     logger.With("component", "recompute_order_totals"),
	}
}

func (h RecomputeOrderTotalsCommandHandler) WithRetryPolicy(policy RetryPolicy) RecomputeOrderTotalsCommandHandler {
	h.retry = policy
	return h
}

func (h *RecomputeOrderTotalsCommandHandler) Handle(ctx context.Context, cmd RecomputeOrderTotalsCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var result *order.Order
	err := runWithRetry(ctx, h.retry, h.logger, func() error {
		o, err := h.recompute(ctx, cmd)
		if err != nil {
			return err
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *RecomputeOrderTotalsCommandHandler) recompute(ctx context.Context, cmd RecomputeOrderTotalsCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	var c *coupon.Coupon
	if id := o.CouponID(); id != nil {
		c, err = uow.CouponRepository().Get(ctx, *id)
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			h.logger.WarnContext(ctx, "attached coupon is gone, repricing without it",
				"order_id", o.ID().String(), "coupon_id", id.String())
			c = nil
		case err != nil:
			return nil, err
		}
	}

	before := o.Totals()
	if err = o.Reprice(c, h.clock.Now()); err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if before != o.Totals() {
		h.logger.InfoContext(ctx, "order totals changed",
			"order_id", o.ID().String(), "total_before", before.Total.Amount(), "total", o.Total().Amount())
	}
	return o, nil
}
