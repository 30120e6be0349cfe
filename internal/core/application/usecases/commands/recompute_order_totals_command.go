package commands

import (
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrRecomputeOrderTotalsCommandIsNotConstructed = errors.New(
	"RecomputeOrderTotalsCommand must be created via NewRecomputeOrderTotalsCommand constructor",
)

// RecomputeOrderTotalsCommand re-derives an order's monetary fields.
type RecomputeOrderTotalsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRecomputeOrderTotalsCommand(orderID kernel.UUID) (RecomputeOrderTotalsCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RecomputeOrderTotalsCommand{}, errs.NewValueIsRequiredErrorWithCause("order id", err)
	}

	return RecomputeOrderTotalsCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RecomputeOrderTotalsCommand) Validate() error {
	return c.guard.Validate(ErrRecomputeOrderTotalsCommandIsNotConstructed)
}

func (c RecomputeOrderTotalsCommand) OrderID() kernel.UUID {
	return c.orderID
}
