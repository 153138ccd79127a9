// Package jobs provides scheduled background tasks for the fieldwork engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations around the daily route lifecycle.
//
// # Available Jobs
//
// 1. OutstandingJobsBroadcastJob - Runs once per day (18:00 by default) and
// broadcasts the list of workers who still have pending or in-progress jobs,
// so dispatchers can chase unfinished routes before end of shift.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(db, notifier, "", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The broadcast is advisory. Query and delivery failures are logged and the
// next scheduled run retries; a failure never affects job state transitions.
package jobs
