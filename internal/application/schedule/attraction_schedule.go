package schedule

import (
	"context"
	"time"

	"city-api/internal/domain/usecase/city"
	"city-api/pkg/log"
	"city-api/pkg/msg"
	"city-api/pkg/redis"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// AttractionSchedulerConfig holds configuration for the attraction refresh scheduler
type AttractionSchedulerConfig struct {
	CronExpression  string
	LockTTL         time.Duration
	RefreshInterval time.Duration
}

// AttractionScheduler periodically enqueues snapshots with missing or failed
// attractions for re-fetching. A distributed lock makes sure only one
// instance runs the schedule.
type AttractionScheduler struct {
	cron        *cron.Cron
	useCase     city.UseCase
	redisClient *redis.Client
	config      *AttractionSchedulerConfig
}

// NewAttractionScheduler creates a new attraction refresh scheduler with
// distributed locking support
func NewAttractionScheduler(useCase city.UseCase, redisClient *redis.Client, cronExpression string, lockTTL time.Duration, refreshInterval time.Duration) *AttractionScheduler {
	return &AttractionScheduler{
		cron:        cron.New(cron.WithSeconds()),
		useCase:     useCase,
		redisClient: redisClient,
		config: &AttractionSchedulerConfig{
			CronExpression:  cronExpression,
			LockTTL:         lockTTL,
			RefreshInterval: refreshInterval,
		},
	}
}

// InitAttractionScheduleTasks initializes the refresh schedule behind a
// distributed lock
func (s *AttractionScheduler) InitAttractionScheduleTasks(ctx context.Context) {
	go func() {
		lock := redis.NewScheduledTaskLock(
			s.redisClient,
			"attraction_refresh_scheduler",
			s.getLockTTL(),
			s.getRefreshInterval(),
			"city_schedules",
		)

		if err := lock.Lock(ctx); err != nil {
			log.Info(msg.GetMessage("schedule.refresh.lock-denied"), zap.Error(err))
			return
		}

		refreshErrChan := lock.AutoRefresh(ctx)

		_, err := s.cron.AddFunc(s.config.CronExpression, s.ExecuteScheduledTask)
		if err != nil {
			log.Errorf("Failed to initialize attraction refresh scheduler, cron will not be started: %v", err)
			return
		}

		s.cron.Start()
		log.Infof("Attraction refresh scheduler started with cron expression: %s", s.config.CronExpression)

		err = <-refreshErrChan

		if s.cron != nil {
			cronCtx := s.cron.Stop()
			<-cronCtx.Done()
		}

		if err != nil {
			log.Errorf("Attraction refresh scheduler stopped due to auto-refresh failure: %v", err)
		} else {
			log.Info("Attraction refresh scheduler stopped gracefully")
		}
	}()
}

// ExecuteScheduledTask enqueues every refresh candidate
func (s *AttractionScheduler) ExecuteScheduledTask() {
	requestID := uuid.New().String()

	log.Info(msg.GetMessage("schedule.refresh.start", requestID), zap.String("request_id", requestID))

	enqueued, err := s.useCase.EnqueueRefreshCandidates(requestID)
	if err != nil {
		log.Error("Failed to enqueue attraction refresh candidates",
			zap.String("request_id", requestID), zap.Error(err))
		return
	}

	log.Info(msg.GetMessage("schedule.refresh.enqueued", requestID, enqueued),
		zap.String("request_id", requestID), zap.Int("enqueued", enqueued))
}

// Stop gracefully stops the scheduler
func (s *AttractionScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}

func (s *AttractionScheduler) getLockTTL() time.Duration {
	if s.config.LockTTL > 0 {
		return s.config.LockTTL
	}
	return 10 * time.Minute
}

func (s *AttractionScheduler) getRefreshInterval() time.Duration {
	if s.config.RefreshInterval > 0 {
		return s.config.RefreshInterval
	}
	return 1 * time.Minute
}
