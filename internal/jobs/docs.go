// Package jobs provides scheduled background tasks for the fulfillment pipeline.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic passes the pipeline needs next to its job queues.
//
// # Available Jobs
//
// 1. TrackingSyncJob - every 4 hours, fans out tracking refresh jobs for in-flight orders
// 2. DelayedOrderJob - hourly, notifies customers of orders stuck past the delay threshold
// 3. CleanupJob - hourly, removes finished queue jobs past retention (completed 24h, failed 7d)
// 4. PerformanceJob - every 30 minutes, raises log alerts on queue depth and failure counts
// 5. ReprocessJob - every 30 minutes, moves cooled-down FAILED orders back into the pipeline
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(trackingSyncHandler, delayedOrdersHandler,
//		performanceHandler, reprocessHandler, store, jobs.Schedules{}, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Every expression uses the six-field form with a seconds column. The defaults
// stagger the hourly and half-hourly passes so they do not pile up on the
// database at the same instant. Deployments override them through Schedules.
//
// # Error Handling
//
// Every job logs handler errors and keeps its schedule; a failing pass is
// retried at the next tick. Failed job starts stop any already running jobs.
package jobs
