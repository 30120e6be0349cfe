package commands

import (
	"errors"
	"fmt"
	"time"

	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrCancelStaleOrdersCommandIsNotConstructed = errors.New(
	"CancelStaleOrdersCommand must be created via NewCancelStaleOrdersCommand constructor",
)

// CancelStaleOrdersCommand cancels PENDING orders older than ttl, at most
// batchSize per run.
type CancelStaleOrdersCommand struct { //nolint:recvcheck //using for validation
	ttl       time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

func NewCancelStaleOrdersCommand(ttl time.Duration, batchSize int) (CancelStaleOrdersCommand, error) {
	if ttl <= 0 {
		return CancelStaleOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause("ttl", fmt.Errorf("%s is not positive", ttl))
	}
	if batchSize <= 0 {
		return CancelStaleOrdersCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}

	return CancelStaleOrdersCommand{
		ttl:       ttl,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CancelStaleOrdersCommand) Validate() error {
	return c.guard.Validate(ErrCancelStaleOrdersCommandIsNotConstructed)
}

func (c CancelStaleOrdersCommand) TTL() time.Duration {
	return c.ttl
}

func (c CancelStaleOrdersCommand) BatchSize() int {
	return c.batchSize
}
