package commands

import (
	"context"
	"log/slog"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
)

// TransitionOrderStatusCommandHandler applies one status change under a row
// lock, so concurrent transitions of the same order serialize and the first
// arrival timestamps are written exactly once.
type TransitionOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	retry      RetryPolicy
	logger     *slog.Logger
}

func NewTransitionOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	logger *slog.Logger,
) TransitionOrderStatusCommandHandler {
	return TransitionOrderStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		retry:      DefaultRetryPolicy(),
		logger:     logger.With("component", "transition_order_status"),
	}
}

func (h TransitionOrderStatusCommandHandler) WithRetryPolicy(policy RetryPolicy) TransitionOrderStatusCommandHandler {
	h.retry = policy
	return h
}

// Handle returns the order after the transition. A move to the current status
// succeeds without writing; an illegal move returns errs.ConflictError.
func (h *TransitionOrderStatusCommandHandler) Handle(ctx context.Context, cmd TransitionOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var result *order.Order
	err := runWithRetry(ctx, h.retry, h.logger, func() error {
		o, err := h.transition(ctx, cmd)
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

func (h *TransitionOrderStatusCommandHandler) transition(ctx context.Context, cmd TransitionOrderStatusCommand) (*order.Order, error) {
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

	previous := o.Status()
	if previous == cmd.Status() {
		return o, nil
	}

	if err = o.TransitionTo(cmd.Status(), h.clock.Now()); err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order status changed",
		"order_id", o.ID().String(), "from", previous.String(), "to", o.Status().String())
	return o, nil
}
