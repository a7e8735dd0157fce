package health

import (
	"context"
	"errors"
	"testing"

	"city-api/internal/domain/model"
	"city-api/pkg/redis"
	"city-api/pkg/sqs"

	"github.com/alicebob/miniredis/v2"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHealthDBGateway struct {
	healthFn func() model.ComponentHealthStatus
}

func (m *mockHealthDBGateway) Health() model.ComponentHealthStatus {
	if m.healthFn != nil {
		return m.healthFn()
	}
	return model.ComponentHealthStatus{Status: model.StatusUp}
}

type mockQueueClient struct {
	getQueueUrlFn func(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error)
}

func (m *mockQueueClient) GetQueueUrl(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error) {
	if m.getQueueUrlFn != nil {
		return m.getQueueUrlFn(ctx, params, optFns...)
	}
	queueURL := "https://sqs.local/attraction-refresh"
	return &awssqs.GetQueueUrlOutput{QueueUrl: &queueURL}, nil
}

func (m *mockQueueClient) GetQueueAttributes(ctx context.Context, params *awssqs.GetQueueAttributesInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueAttributesOutput, error) {
	return &awssqs.GetQueueAttributesOutput{
		Attributes: map[string]string{"ApproximateNumberOfMessages": "0"},
	}, nil
}

func newCacheChecker(t *testing.T) *redis.HealthChecker {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return redis.NewHealthChecker(redis.NewClientFromRedis(rdb, nil))
}

func TestCheckHealthAggregatesAllComponents(t *testing.T) {
	useCase := NewHealthUseCase(&mockHealthDBGateway{}, newCacheChecker(t),
		sqs.NewHealthChecker(&mockQueueClient{}, "attraction-refresh"))

	response := useCase.CheckHealth()

	assert.Equal(t, model.StatusUp, response.Status)
	assert.Equal(t, model.StatusUp, response.Database.Status)
	assert.Equal(t, model.StatusUp, response.Cache.Status)
	assert.Equal(t, model.StatusUp, response.Queue.Status)
	assert.Equal(t, "attraction-refresh", response.Queue.Details["queue_name"])
}

func TestCheckHealthDegradesWhenQueueIsDown(t *testing.T) {
	queueClient := &mockQueueClient{
		getQueueUrlFn: func(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error) {
			return nil, errors.New("queue does not exist")
		},
	}
	useCase := NewHealthUseCase(&mockHealthDBGateway{}, newCacheChecker(t),
		sqs.NewHealthChecker(queueClient, "attraction-refresh"))

	response := useCase.CheckHealth()

	assert.Equal(t, model.StatusDown, response.Status)
	assert.Equal(t, model.StatusUp, response.Database.Status)
	assert.Equal(t, model.StatusDown, response.Queue.Status)
}

func TestCheckHealthDegradesWhenDatabaseIsDown(t *testing.T) {
	dbGateway := &mockHealthDBGateway{
		healthFn: func() model.ComponentHealthStatus {
			return model.ComponentHealthStatus{Status: model.StatusDown}
		},
	}
	useCase := NewHealthUseCase(dbGateway, newCacheChecker(t),
		sqs.NewHealthChecker(&mockQueueClient{}, "attraction-refresh"))

	response := useCase.CheckHealth()

	assert.Equal(t, model.StatusDown, response.Status)
}

func TestCheckHealthWithoutCheckersReportsUnknown(t *testing.T) {
	useCase := NewHealthUseCase(&mockHealthDBGateway{}, nil, nil)

	response := useCase.CheckHealth()

	assert.Equal(t, model.StatusDown, response.Status)
	assert.Equal(t, model.StatusUnknown, response.Cache.Status)
	assert.Equal(t, model.StatusUnknown, response.Queue.Status)
}
