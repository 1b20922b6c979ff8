// Package scheduler runs periodic per-tenant maintenance jobs on a
// bounded worker pool: dashboard snapshot refreshes, low stock scans
// and lead rescoring.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus tracks a job through its lifecycle.
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobType identifies the maintenance task a job performs.
type JobType string

const (
	JobTypeSnapshotRefresh JobType = "snapshot_refresh"
	JobTypeLowStockScan    JobType = "low_stock_scan"
	JobTypeLeadRescore     JobType = "lead_rescore"
)

// Job is one unit of per-tenant maintenance work.
type Job struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Type        JobType
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a pending job for one tenant.
func NewJob(tenantID uuid.UUID, jobType JobType, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Type:       jobType,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

func timestamp() *time.Time {
	now := time.Now()
	return &now
}

// Start marks the job as running and clears any previous error.
func (j *Job) Start() {
	j.Status = JobStatusRunning
	j.StartedAt = timestamp()
	j.Error = ""
}

// Complete marks the job as successful.
func (j *Job) Complete() {
	j.Status = JobStatusSuccess
	j.CompletedAt = timestamp()
}

// Fail records the error and marks the job as failed.
func (j *Job) Fail(errMsg string) {
	j.Status = JobStatusFailed
	j.CompletedAt = timestamp()
	j.Error = errMsg
}

// ShouldRetry reports whether a failed job still has retry budget.
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry resets a failed job to pending and stamps the earliest
// time the next attempt may run.
func (j *Job) ScheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	next := time.Now().Add(delay)
	j.NextRetryAt = &next
	j.Error = ""
}

// JobExecutor performs the actual maintenance work for a job.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// Observer is notified after every job attempt. The telemetry layer
// implements it to export job counters and durations.
type Observer interface {
	ObserveJob(ctx context.Context, jobType, status string, elapsed time.Duration)
}

// Config holds worker pool configuration.
type Config struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultConfig returns the worker pool defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs: 3,
		JobTimeout:        5 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// queueCapacity bounds how many jobs may wait for a worker. A full
// queue rejects submissions rather than blocking the trigger loop.
const queueCapacity = 256

// Scheduler distributes maintenance jobs across a fixed set of
// workers. Jobs are queued through a buffered channel and failed jobs
// are re-queued with backoff until their retry budget runs out.
type Scheduler struct {
	config   Config
	executor JobExecutor
	observer Observer
	logger   *zap.Logger

	jobs   chan *Job
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// NewScheduler builds a scheduler around the given executor. Zero or
// negative pool settings fall back to the defaults.
func NewScheduler(config Config, executor JobExecutor, logger *zap.Logger) *Scheduler {
	defaults := DefaultConfig()
	if config.MaxConcurrentJobs < 1 {
		config.MaxConcurrentJobs = defaults.MaxConcurrentJobs
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, queueCapacity),
	}
}

// SetObserver installs the job outcome observer. Call before Start.
func (s *Scheduler) SetObserver(observer Observer) {
	s.observer = observer
}

// Start launches the worker pool. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Maintenance scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop shuts down the pool and waits for in-flight jobs, up to the
// deadline carried by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	s.cancel()
	close(s.jobs)

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		s.wg.Wait()
	}()

	select {
	case <-drained:
		s.logger.Info("Maintenance scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Submit queues a job for execution without blocking.
func (s *Scheduler) Submit(job *Job) error {
	if !s.running() {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
	default:
		return ErrJobQueueFull
	}

	s.logger.Debug("Job submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.String("tenant_id", job.TenantID.String()),
	)
	return nil
}

// SubmitForTenant queues one job of the given type for a tenant,
// using the configured retry budget.
func (s *Scheduler) SubmitForTenant(tenantID uuid.UUID, jobType JobType) error {
	return s.Submit(NewJob(tenantID, jobType, s.config.RetryAttempts))
}

func (s *Scheduler) worker(ctx context.Context, id int) {
	defer s.wg.Done()

	log := s.logger.With(zap.Int("worker_id", id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			s.run(ctx, job, log)
		}
	}
}

// run executes one job attempt. Jobs pulled before their backoff
// elapsed go straight back into the queue.
func (s *Scheduler) run(ctx context.Context, job *Job, log *zap.Logger) {
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		s.requeue(job, log)
		return
	}

	job.Start()
	started := time.Now()
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := s.executor.Execute(jobCtx, job)
	cancel()

	if s.observer != nil {
		status := string(JobStatusSuccess)
		if err != nil {
			status = string(JobStatusFailed)
		}
		s.observer.ObserveJob(ctx, string(job.Type), status, time.Since(started))
	}

	fields := []zap.Field{
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.String("tenant_id", job.TenantID.String()),
	}

	if err == nil {
		job.Complete()
		log.Debug("Job completed", fields...)
		return
	}

	job.Fail(err.Error())
	log.Error("Job failed", append(fields, zap.Error(err))...)

	if job.ShouldRetry() {
		job.ScheduleRetry(s.config.RetryDelay)
		log.Info("Job scheduled for retry",
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
		)
		s.requeue(job, log)
	}
}

func (s *Scheduler) requeue(job *Job, log *zap.Logger) {
	select {
	case s.jobs <- job:
	default:
		log.Warn("Dropping job, retry queue is full",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
		)
	}
}
