package schedule

import (
	"time"

	"city-api/internal/domain/usecase/city"
	"city-api/pkg/log"
	"city-api/pkg/msg"

	"github.com/go-co-op/gocron/v2"
)

// CityCleanupScheduler removes snapshots that have not been refreshed within
// the retention window.
type CityCleanupScheduler struct {
	scheduler gocron.Scheduler
	useCase   city.UseCase
	retention time.Duration
}

// NewCityCleanupScheduler creates the snapshot cleanup scheduler. retention
// is how long a snapshot may go without an update before it is purged.
func NewCityCleanupScheduler(useCase city.UseCase, retention time.Duration) (*CityCleanupScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &CityCleanupScheduler{
		scheduler: scheduler,
		useCase:   useCase,
		retention: retention,
	}, nil
}

// InitCleanupTasks schedules the daily purge and starts the scheduler
func (s *CityCleanupScheduler) InitCleanupTasks() error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob("0 0 4 * * *", true),
		gocron.NewTask(s.PurgeStaleSnapshots),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

// PurgeStaleSnapshots runs one purge pass
func (s *CityCleanupScheduler) PurgeStaleSnapshots() {
	removed, err := s.useCase.PurgeStaleSnapshots(s.retention)
	if err != nil {
		log.Errorf("Snapshot cleanup failed: %v", err)
		return
	}

	log.Info(msg.GetMessage("schedule.cleanup.done", removed))
}

// Stop gracefully stops the scheduler
func (s *CityCleanupScheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		log.Warnf("Failed to shut down cleanup scheduler: %v", err)
	}
}
