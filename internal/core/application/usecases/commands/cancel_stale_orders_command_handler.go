package commands

import (
	"context"
	"errors"
	"log/slog"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
)

// CancelStaleOrdersCommandHandler cancels abandoned PENDING orders. Each order
// is cancelled in its own unit of work under a row lock, so an order picked up
// by staff in the meantime is left alone. Coupon usage is not given back.
type CancelStaleOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewCancelStaleOrdersCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock, logger *slog.Logger) CancelStaleOrdersCommandHandler {
	return CancelStaleOrdersCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger.With("component", "cancel_stale_orders"),
	}
}

// Handle returns the number of orders cancelled. Failures on single orders are
// logged and joined into the returned error; the remaining orders are still
// processed.
func (h *CancelStaleOrdersCommandHandler) Handle(ctx context.Context, cmd CancelStaleOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	cutoff := h.clock.Now().Add(-cmd.TTL())
	stale, err := h.uowFactory.Create().OrderRepository().GetPendingCreatedBefore(ctx, cutoff, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	cancelled := 0
	var failures []error
	for _, candidate := range stale {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}

		ok, err := h.cancel(ctx, candidate.ID())
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to cancel stale order", "order_id", candidate.ID().String(), "error", err)
			failures = append(failures, err)
			continue
		}
		if ok {
			cancelled++
		}
	}

	return cancelled, errors.Join(failures...)
}

func (h *CancelStaleOrdersCommandHandler) cancel(ctx context.Context, id kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if o.Status() != order.Pending {
		return false, nil
	}

	if err = o.Cancel(h.clock.Now()); err != nil {
		return false, err
	}
	if err = repo.Update(ctx, o); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.logger.InfoContext(ctx, "stale order cancelled", "order_id", id.String(), "number", o.Number().String())
	return true, nil
}
