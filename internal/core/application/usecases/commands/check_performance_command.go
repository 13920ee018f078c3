package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrCheckPerformanceCommandIsNotConstructed = errors.New(
	"CheckPerformanceCommand must be created via NewCheckPerformanceCommand constructor",
)

// CheckPerformanceCommand inspects the health of the pipeline: queue
// backlogs, failed jobs, and failed orders. Triggered periodically.
type CheckPerformanceCommand struct {
	guard guard.ConstructorGuard
}

// NewCheckPerformanceCommand creates a command to run the health inspection.
func NewCheckPerformanceCommand() CheckPerformanceCommand {
	return CheckPerformanceCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrCheckPerformanceCommandIsNotConstructed if validation fails.
func (c *CheckPerformanceCommand) Validate() error {
	return c.guard.Validate(ErrCheckPerformanceCommandIsNotConstructed)
}
