// Package order contains the Order aggregate and its lifecycle state machine.
//
// An order enters the pipeline in Pending status, is routed to a supplier,
// sent through the supplier gateway, and then advances through Processing,
// Shipped, and Delivered as the supplier and carrier report progress.
// Cancellation is possible from every state except Delivered; exhausted
// supplier communication moves the order to Failed, from which the scheduled
// reprocessing pass can return it to Pending.
//
// Status transition side effects (audit entries, notification enqueues) are
// the responsibility of the application layer; the aggregate only guards the
// allowed-edge set and rejects illegal transitions without mutating state.
package order
