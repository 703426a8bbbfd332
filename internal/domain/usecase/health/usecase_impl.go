package health

import (
	"context"

	"go-ingest/internal/domain/gateway/cache"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/gateway/queue"
	"go-ingest/internal/domain/model"
)

type healthUseCase struct {
	dbGateway    db.HealthDBGateway
	queueGateway queue.HealthGateway
	cacheGateway cache.HealthGateway
}

// NewHealthUseCase builds the health check. A nil cacheGateway reports the cache as disabled.
func NewHealthUseCase(dbGateway db.HealthDBGateway, queueGateway queue.HealthGateway, cacheGateway cache.HealthGateway) UseCase {
	return &healthUseCase{
		dbGateway:    dbGateway,
		queueGateway: queueGateway,
		cacheGateway: cacheGateway,
	}
}

func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	dbHealth := useCase.dbGateway.Health(ctx)
	queueHealth := useCase.queueGateway.Health()
	cacheHealth := model.ComponentHealthStatus{
		Status:  model.StatusUnknown,
		Details: map[string]string{"message": "Cache disabled"},
	}
	if useCase.cacheGateway != nil {
		cacheHealth = useCase.cacheGateway.Health(ctx)
	}

	// unknown components are disabled ones and do not fail the check
	overallStatus := model.StatusUp
	if dbHealth.Status != model.StatusUp || queueHealth.Status == model.StatusDown || cacheHealth.Status == model.StatusDown {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status:   overallStatus,
		Database: dbHealth,
		Queue:    queueHealth,
		Cache:    cacheHealth,
	}
}
