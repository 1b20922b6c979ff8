package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when a job is submitted to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue cannot accept more work
	ErrJobQueueFull = errors.New("job queue is full")
)
