package commands

import (
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrTransitionOrderStatusCommandIsNotConstructed = errors.New(
	"TransitionOrderStatusCommand must be created via NewTransitionOrderStatusCommand constructor",
)

// TransitionOrderStatusCommand moves an order to another operational status.
type TransitionOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status

	guard guard.ConstructorGuard
}

// NewTransitionOrderStatusCommand parses status ("IN_PROGRESS", "READY", ...).
func NewTransitionOrderStatusCommand(orderID kernel.UUID, status string) (TransitionOrderStatusCommand, error) {
	cmd := TransitionOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
	); err != nil {
		return TransitionOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c TransitionOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderStatusCommandIsNotConstructed)
}

func (c TransitionOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c *TransitionOrderStatusCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order id", err)
	}

	c.orderID = id
	return nil
}

func (c *TransitionOrderStatusCommand) setStatus(raw string) error {
	status, err := order.ParseStatus(raw)
	if err != nil {
		return errs.NewValidationError("status", err.Error())
	}

	c.status = status
	return nil
}
