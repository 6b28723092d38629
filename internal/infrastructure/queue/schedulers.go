package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/shared"
)

// Cron specs, evaluated in UTC.
const (
	PruneViewBucketsSpec = "0 3 * * *"
	WarmTrendingSpec     = "*/10 * * * *"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisOpt asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterMaintenanceJobs registers every periodic task.
func (s *Scheduler) RegisterMaintenanceJobs() error {
	if err := s.registerPruneViewBucketsJob(); err != nil {
		return err
	}
	if err := s.registerWarmTrendingJob(); err != nil {
		return err
	}
	return nil
}

// Daily at 03:00: drop view buckets past retention.
func (s *Scheduler) registerPruneViewBucketsJob() error {
	task := asynq.NewTask(shared.TypePruneViewBuckets, nil)

	entryID, err := s.scheduler.Register(
		PruneViewBucketsSpec,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", shared.TypePruneViewBuckets, err)
	}

	log.Info().
		Str("entry_id", entryID).
		Str("schedule", PruneViewBucketsSpec).
		Msg("Registered PruneViewBuckets job")
	return nil
}

// Every 10 minutes: recompute both trending windows.
func (s *Scheduler) registerWarmTrendingJob() error {
	task := asynq.NewTask(shared.TypeWarmTrendingCache, nil)

	entryID, err := s.scheduler.Register(
		WarmTrendingSpec,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(0),
		asynq.Timeout(time.Minute),
		asynq.Unique(9*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", shared.TypeWarmTrendingCache, err)
	}

	log.Info().
		Str("entry_id", entryID).
		Str("schedule", WarmTrendingSpec).
		Msg("Registered WarmTrendingCache job")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
