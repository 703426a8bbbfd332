package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"go-ingest/internal/domain/usecase/pipeline"
	"go-ingest/internal/infra/observability"
	"go-ingest/pkg/log"
	"go-ingest/pkg/msg"
	"go-ingest/pkg/redis"
)

const scheduleTrigger = "schedule"

// IngestSchedulerConfig holds configuration for the ingestion scheduler
type IngestSchedulerConfig struct {
	CronExpression  string
	LockTTL         time.Duration
	RefreshInterval time.Duration
}

// IngestScheduler runs the pipeline on a cron expression. With a Redis client only the
// instance holding the scheduler lock fires the schedule.
type IngestScheduler struct {
	cron        *cron.Cron
	useCase     pipeline.UseCase
	redisClient *redis.Client
	config      IngestSchedulerConfig
}

// NewIngestScheduler creates the scheduler, redisClient may be nil
func NewIngestScheduler(useCase pipeline.UseCase, redisClient *redis.Client, config IngestSchedulerConfig) *IngestScheduler {
	return &IngestScheduler{
		cron:        cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		useCase:     useCase,
		redisClient: redisClient,
		config:      config,
	}
}

// Start registers the ingestion task. It fails fast on an invalid cron expression.
func (s *IngestScheduler) Start(ctx context.Context) error {
	if _, err := cron.ParseStandard(s.config.CronExpression); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.config.CronExpression, err)
	}
	if _, err := s.cron.AddFunc(s.config.CronExpression, func() { s.ExecuteScheduledTask(ctx) }); err != nil {
		return fmt.Errorf("failed to register ingestion task: %w", err)
	}

	if s.redisClient == nil {
		s.cron.Start()
		log.Infof("Ingestion scheduler started with cron expression: %s", s.config.CronExpression)
		return nil
	}

	go s.runWithLock(ctx)
	return nil
}

// runWithLock holds the scheduler lock for as long as the cron runs
func (s *IngestScheduler) runWithLock(ctx context.Context) {
	lock := redis.NewScheduledTaskLock(
		s.redisClient,
		"ingest_scheduler",
		s.getLockTTL(),
		s.getRefreshInterval(),
		"ingest_schedules",
	)

	if err := lock.Lock(ctx); err != nil {
		log.Warnf("Scheduler lock is held elsewhere, ingestion schedule stays idle on this instance: %v", err)
		return
	}
	refreshErrChan := lock.AutoRefresh(ctx)

	s.cron.Start()
	log.Infof("Ingestion scheduler started with cron expression: %s", s.config.CronExpression)

	err := <-refreshErrChan
	s.Stop()
	if err != nil {
		log.Errorf("Ingestion scheduler stopped due to lock refresh failure: %v", err)
		return
	}
	log.Info("Ingestion scheduler stopped gracefully")
}

// ExecuteScheduledTask runs the pipeline over the configured city list
func (s *IngestScheduler) ExecuteScheduledTask(ctx context.Context) {
	requestID := uuid.New().String()
	log.Info(msg.GetMessage("schedule.start"), zap.String("request_id", requestID))

	_, err := s.useCase.RunEntities(ctx, requestID, nil, nil)
	observability.RecordPipelineRun(scheduleTrigger, err)
	if err != nil {
		log.Error(msg.GetMessage("schedule.failed"), zap.String("request_id", requestID), zap.Error(err))
		return
	}

	log.Info(msg.GetMessage("schedule.end"), zap.String("request_id", requestID))
}

// Stop gracefully stops the scheduler, waiting for a running task
func (s *IngestScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *IngestScheduler) getLockTTL() time.Duration {
	if s.config.LockTTL > 0 {
		return s.config.LockTTL
	}
	return 10 * time.Minute
}

func (s *IngestScheduler) getRefreshInterval() time.Duration {
	if s.config.RefreshInterval > 0 {
		return s.config.RefreshInterval
	}
	return s.getLockTTL() / 3
}
