// Package queue implements the job queue fabric of the fulfillment pipeline:
// durable named queues with priority, delay, and retry/backoff policy, plus
// per-queue worker pools with lease-based exclusive execution.
//
// # Job lifecycle
//
// A job is enqueued waiting (or delayed, when scheduled in the future). A
// worker leases it, making it active and incrementing its attempt count; the
// lease guarantees exactly one worker executes it at a time. On handler
// success the job completes and is retained until retention cleanup. On
// handler failure the job is delayed by its backoff policy and re-enqueued
// while attempts remain, otherwise it fails terminally and is never retried
// again. Workers that die mid-execution leave an expired lease; the manager's
// stalled sweep returns those jobs to waiting.
//
// # Usage
//
//	store := queue.NewMemStore()
//	fabric := queue.New(store, logger)
//
//	pool := queue.NewWorkerPool("orders", store, logger, queue.WithConcurrency(8))
//	pool.Handle("PROCESS_ORDER", processOrder)
//
//	manager := queue.NewManager(store, logger)
//	manager.AddPool(pool)
//	manager.StartAll()
//	defer manager.StopAll()
//
//	fabric.Enqueue(ctx, "orders", "PROCESS_ORDER", payload, queue.WithPriority(5))
//
// The payload is opaque to the fabric; handlers unmarshal it. Errors wrapped
// with Terminal are failed immediately without consuming the retry budget.
package queue
