package health

import (
	"context"

	"city-api/internal/domain/gateway/db"
	"city-api/internal/domain/model"
	"city-api/pkg/redis"
	"city-api/pkg/sqs"
)

type healthUseCase struct {
	dbGateway    db.HealthDBGateway
	cacheChecker *redis.HealthChecker
	queueChecker *sqs.HealthChecker
}

func NewHealthUseCase(dbGateway db.HealthDBGateway, cacheChecker *redis.HealthChecker, queueChecker *sqs.HealthChecker) UseCase {
	return &healthUseCase{
		dbGateway:    dbGateway,
		cacheChecker: cacheChecker,
		queueChecker: queueChecker,
	}
}

func (useCase *healthUseCase) CheckHealth() model.HealthResponse {
	dbHealth := useCase.dbGateway.Health()
	cacheHealth := useCase.checkCache()
	queueHealth := useCase.checkQueue()

	overallStatus := model.StatusUp
	if dbHealth.Status != model.StatusUp || cacheHealth.Status != model.StatusUp || queueHealth.Status != model.StatusUp {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status:   overallStatus,
		Database: dbHealth,
		Cache:    cacheHealth,
		Queue:    queueHealth,
	}
}

func (useCase *healthUseCase) checkCache() model.ComponentHealthStatus {
	if useCase.cacheChecker == nil {
		return model.ComponentHealthStatus{
			Status:  model.StatusUnknown,
			Details: map[string]string{"message": "cache health checker not configured"},
		}
	}

	result := useCase.cacheChecker.HealthCheck(context.Background())
	return model.ComponentHealthStatus{
		Status:  model.HealthStatus(result.Status),
		Details: result.Details,
	}
}

func (useCase *healthUseCase) checkQueue() model.ComponentHealthStatus {
	if useCase.queueChecker == nil {
		return model.ComponentHealthStatus{
			Status:  model.StatusUnknown,
			Details: map[string]string{"message": "queue health checker not configured"},
		}
	}

	result := useCase.queueChecker.HealthCheck(context.Background())
	return model.ComponentHealthStatus{
		Status:  model.HealthStatus(result.Status),
		Details: result.Details,
	}
}
