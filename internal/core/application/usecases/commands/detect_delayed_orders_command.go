package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrDetectDelayedOrdersCommandIsNotConstructed = errors.New(
	"DetectDelayedOrdersCommand must be created via NewDetectDelayedOrdersCommand constructor",
)

// DetectDelayedOrdersCommand finds orders stuck at the supplier longer than
// the delay threshold and apologizes to their customers. The orders keep
// their status; only the notification goes out.
type DetectDelayedOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewDetectDelayedOrdersCommand creates a command to sweep for delayed orders.
// This is a parameterless command that inspects all in-flight orders.
func NewDetectDelayedOrdersCommand() DetectDelayedOrdersCommand {
	return DetectDelayedOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrDetectDelayedOrdersCommandIsNotConstructed if validation fails.
func (c *DetectDelayedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDetectDelayedOrdersCommandIsNotConstructed)
}
