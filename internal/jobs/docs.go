// Package jobs provides scheduled background tasks for the order engine.
//
// Jobs run on github.com/robfig/cron/v3 with a seconds field in the schedule.
//
// # Available Jobs
//
// StaleOrderCancellationJob cancels PENDING orders that nobody picked up within
// a TTL. Each order is cancelled in its own transaction and coupon usage is not
// given back.
//
// # Usage
//
//	jm := jobs.NewJobManager(&cancelHandler, jobs.StaleOrderSettings{
//		Schedule:  "0 * * * * *",
//		TTL:       2 * time.Hour,
//		BatchSize: 100,
//	}, logger)
//	if err := jm.StartAll(); err != nil {
//		return err
//	}
//	defer jm.StopAll(ctx)
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick; overlapping ticks are
// skipped and panics are recovered by the cron chain.
package jobs
