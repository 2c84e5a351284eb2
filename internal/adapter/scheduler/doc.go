// Package scheduler runs background jobs on cron schedules (robfig/cron/v3)
// when the functions are served by the long-running HTTP server. Under the
// Lambda runtime there is no process to host it, and retention is expected
// to be handled by a separately scheduled invocation instead.
//
// Schedules use the six-field format with seconds:
//
//	"0 */30 * * * *"  every 30 minutes
//	"@hourly"         every hour
//	"@every 5m"       every 5 minutes
//
// Each job receives a context canceled on Stop, optionally bounded by
// JobOptions.Timeout. Panics inside jobs are recovered and reported like
// errors. Overlapping runs are controlled by OverlapPolicy.
//
//	s := scheduler.New(scheduler.Config{Logger: log})
//	_, err := s.AddCronJobWithOptions("@hourly",
//	    scheduler.PruneJob(store, 7*24*time.Hour, log),
//	    scheduler.JobOptions{Name: "journal-prune", OverlapPolicy: scheduler.SkipIfRunning})
//	s.Start()
//	defer s.StopContext(shutdownCtx)
package scheduler
