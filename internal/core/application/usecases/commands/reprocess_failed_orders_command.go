package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrReprocessFailedOrdersCommandIsNotConstructed = errors.New(
	"ReprocessFailedOrdersCommand must be created via NewReprocessFailedOrdersCommand constructor",
)

// ReprocessFailedOrdersCommand returns failed orders to the pipeline.
// Triggered periodically; each recovered order goes through supplier routing
// again from scratch, so a different supplier can pick it up.
//
// Example:
//
//	cmd := NewReprocessFailedOrdersCommand()
//	handler := NewReprocessFailedOrdersCommandHandler(uowFactory, enqueuer, 30*time.Minute)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("reprocessing sweep failed: %v", err)
//	}
type ReprocessFailedOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewReprocessFailedOrdersCommand creates a command to sweep failed orders.
// This is a parameterless command that processes all eligible failures.
func NewReprocessFailedOrdersCommand() ReprocessFailedOrdersCommand {
	return ReprocessFailedOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrReprocessFailedOrdersCommandIsNotConstructed if validation fails.
func (c *ReprocessFailedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrReprocessFailedOrdersCommandIsNotConstructed)
}
