package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// HealthStatus represents the health status of the Redis connection
type HealthStatus string

const (
	StatusUp   HealthStatus = "UP"
	StatusDown HealthStatus = "DOWN"
)

// RedisHealthCheck represents the health check response for Redis
type RedisHealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthChecker provides Redis health checking functionality
type HealthChecker struct {
	client    *Client
	lastError string
}

// NewHealthChecker creates a new Redis health checker
func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{client: client}
}

// HealthCheck performs a health check on the Redis connection
func (h *HealthChecker) HealthCheck(ctx context.Context) RedisHealthCheck {
	pingResult := h.testPing(ctx)
	operationResult := h.testBasicOperations(ctx)

	status := StatusUp
	if !pingResult || !operationResult {
		status = StatusDown
	} else {
		h.lastError = ""
	}

	config := h.client.GetConfig()
	details := map[string]string{
		"host":                  config.Host,
		"port":                  strconv.Itoa(config.Port),
		"database":              strconv.Itoa(config.Database),
		"ping_successful":       strconv.FormatBool(pingResult),
		"operations_successful": strconv.FormatBool(operationResult),
		"last_check":            time.Now().Format(time.RFC3339),
		"last_error":            h.lastError,
	}

	return RedisHealthCheck{
		Status:  status,
		Details: details,
	}
}

// testPing tests basic connectivity to Redis
func (h *HealthChecker) testPing(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.client.Ping(ctx); err != nil {
		h.lastError = fmt.Sprintf("ping failed: %v", err)
		return false
	}
	return true
}

// testBasicOperations tests a set, get and delete roundtrip
func (h *HealthChecker) testBasicOperations(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	testKey := "health_check_test"
	testValue := "test_value"

	if err := h.client.Set(ctx, testKey, testValue, time.Minute); err != nil {
		h.lastError = fmt.Sprintf("set operation failed: %v", err)
		return false
	}

	value, err := h.client.Get(ctx, testKey)
	if err != nil {
		h.lastError = fmt.Sprintf("get operation failed: %v", err)
		return false
	}

	if value != testValue {
		h.lastError = fmt.Sprintf("value mismatch: expected %s, got %s", testValue, value)
		return false
	}

	if err := h.client.Delete(ctx, testKey); err != nil {
		h.lastError = fmt.Sprintf("delete operation failed: %v", err)
		return false
	}

	return true
}
