package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	Hourly Schedule = iota
	Daily           // 02:00 UTC
)

func (s Schedule) String() string {
	switch s {
	case Hourly:
		return "hourly"
	case Daily:
		return "daily"
	default:
		return fmt.Sprintf("schedule(%d)", int(s))
	}
}

// Job is a unit of background maintenance run by the scheduler.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

type SchedulerStatus struct {
	Running bool        `json:"running"`
	Jobs    []JobStatus `json:"jobs"`
}

type scheduledJob struct {
	job       Job
	cron      *gocron.Job
	lastRun   time.Time
	lastError string
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []*scheduledJob
	log       logger.Logger
	started   bool
	cancel    context.CancelFunc
	ctx       context.Context

	// mu guards registration and lifecycle. results guards ctx and job
	// outcomes; jobs only ever take results, so Stop can wait on them.
	mu      sync.Mutex
	results sync.Mutex
}

func NewSchedulerService() *SchedulerService {
	return &SchedulerService{
		scheduler: gocron.NewScheduler(time.UTC),
		log:       logger.New("scheduler"),
		ctx:       context.Background(),
	}
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	entry := &scheduledJob{job: job}
	run := func() { s.run(entry) }

	var err error
	switch job.Schedule() {
	case Daily:
		entry.cron, err = s.scheduler.Every(1).Day().At("02:00").Do(run)
	case Hourly:
		entry.cron, err = s.scheduler.Every(1).Hour().Do(run)
	default:
		return log.Error("unsupported job schedule", "job", job.Name(), "schedule", job.Schedule())
	}
	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, entry)
	log.Info("Job registered", "job", job.Name(), "schedule", job.Schedule())
	return nil
}

// run executes one job and records the outcome for Status.
func (s *SchedulerService) run(entry *scheduledJob) {
	log := s.log.Function("run")

	s.results.Lock()
	ctx := s.ctx
	s.results.Unlock()

	started := time.Now().UTC()
	err := entry.job.Execute(ctx)

	s.results.Lock()
	entry.lastRun = started
	entry.lastError = ""
	if err != nil {
		entry.lastError = err.Error()
	}
	s.results.Unlock()

	if err != nil {
		_ = log.Err("Job failed", err, "job", entry.job.Name())
		return
	}
	log.Info("Job finished", "job", entry.job.Name(), "duration", time.Since(started))
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		return nil
	}
	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	s.results.Lock()
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.results.Unlock()

	s.scheduler.StartAsync()
	s.started = true

	log.Info("Scheduler started", "jobCount", len(s.jobs))
	return nil
}

// Stop cancels the context handed to running jobs and halts the scheduler.
func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false

	s.log.Function("Stop").Info("Scheduler stopped")
	return nil
}

// Status reports every registered job with its next and last run.
func (s *SchedulerService) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.Lock()
	defer s.results.Unlock()

	status := SchedulerStatus{
		Running: s.started,
		Jobs:    make([]JobStatus, 0, len(s.jobs)),
	}

	for _, entry := range s.jobs {
		jobStatus := JobStatus{
			Name:      entry.job.Name(),
			Schedule:  entry.job.Schedule().String(),
			LastError: entry.lastError,
		}
		if s.started && entry.cron != nil {
			if next := entry.cron.NextRun(); !next.IsZero() {
				jobStatus.NextRun = &next
			}
		}
		if !entry.lastRun.IsZero() {
			lastRun := entry.lastRun
			jobStatus.LastRun = &lastRun
		}
		status.Jobs = append(status.Jobs, jobStatus)
	}

	return status
}
