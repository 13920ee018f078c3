package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrSyncTrackingCommandIsNotConstructed = errors.New(
	"SyncTrackingCommand must be created via NewSyncTrackingCommand constructor",
)

// SyncTrackingCommand sweeps every in-flight order and schedules a tracking
// poll for each. Triggered periodically by the scheduled job coordinator.
//
// Example:
//
//	cmd := NewSyncTrackingCommand()
//	handler := NewSyncTrackingCommandHandler(uowFactory, enqueuer)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("tracking sweep failed: %v", err)
//	}
type SyncTrackingCommand struct {
	guard guard.ConstructorGuard
}

// NewSyncTrackingCommand creates a command to sweep in-flight orders.
// This is a parameterless command that processes all trackable orders.
func NewSyncTrackingCommand() SyncTrackingCommand {
	return SyncTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrSyncTrackingCommandIsNotConstructed if validation fails.
func (c *SyncTrackingCommand) Validate() error {
	return c.guard.Validate(ErrSyncTrackingCommandIsNotConstructed)
}
