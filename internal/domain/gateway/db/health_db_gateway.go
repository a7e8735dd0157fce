package db

import (
	"city-api/internal/domain/model"
)

// HealthDBGateway reports the health of the relational store
type HealthDBGateway interface {
	Health() model.ComponentHealthStatus
}
