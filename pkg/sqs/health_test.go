package sqs

import (
	"context"
	"errors"
	"testing"

	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHealthClient struct {
	getQueueUrlFn        func(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error)
	getQueueAttributesFn func(ctx context.Context, params *awssqs.GetQueueAttributesInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueAttributesOutput, error)
}

func (m *mockHealthClient) GetQueueUrl(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error) {
	if m.getQueueUrlFn != nil {
		return m.getQueueUrlFn(ctx, params, optFns...)
	}
	queueURL := "https://sqs.local/attraction-refresh"
	return &awssqs.GetQueueUrlOutput{QueueUrl: &queueURL}, nil
}

func (m *mockHealthClient) GetQueueAttributes(ctx context.Context, params *awssqs.GetQueueAttributesInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueAttributesOutput, error) {
	if m.getQueueAttributesFn != nil {
		return m.getQueueAttributesFn(ctx, params, optFns...)
	}
	return &awssqs.GetQueueAttributesOutput{
		Attributes: map[string]string{"ApproximateNumberOfMessages": "4"},
	}, nil
}

func TestHealthCheckReportsUp(t *testing.T) {
	checker := NewHealthChecker(&mockHealthClient{}, "attraction-refresh")

	result := checker.HealthCheck(context.Background())

	assert.Equal(t, StatusUp, result.Status)
	assert.Equal(t, "attraction-refresh", result.Details["queue_name"])
	assert.Equal(t, "4", result.Details["approximate_number_of_messages"])
	assert.Empty(t, result.Details["last_error"])
}

func TestHealthCheckReportsDownWhenQueueURLFails(t *testing.T) {
	client := &mockHealthClient{
		getQueueUrlFn: func(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error) {
			return nil, errors.New("queue does not exist")
		},
	}
	checker := NewHealthChecker(client, "attraction-refresh")

	result := checker.HealthCheck(context.Background())

	assert.Equal(t, StatusDown, result.Status)
	assert.Contains(t, result.Details["last_error"], "queue URL lookup failed")
}

func TestHealthCheckReportsDownWhenAttributesFail(t *testing.T) {
	client := &mockHealthClient{
		getQueueAttributesFn: func(ctx context.Context, params *awssqs.GetQueueAttributesInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueAttributesOutput, error) {
			return nil, errors.New("access denied")
		},
	}
	checker := NewHealthChecker(client, "attraction-refresh")

	result := checker.HealthCheck(context.Background())

	assert.Equal(t, StatusDown, result.Status)
	assert.Contains(t, result.Details["last_error"], "queue attributes lookup failed")
}

func TestHealthCheckClearsLastErrorOnRecovery(t *testing.T) {
	failing := true
	client := &mockHealthClient{
		getQueueUrlFn: func(ctx context.Context, params *awssqs.GetQueueUrlInput, optFns ...func(*awssqs.Options)) (*awssqs.GetQueueUrlOutput, error) {
			if failing {
				return nil, errors.New("transient outage")
			}
			queueURL := "https://sqs.local/attraction-refresh"
			return &awssqs.GetQueueUrlOutput{QueueUrl: &queueURL}, nil
		},
	}
	checker := NewHealthChecker(client, "attraction-refresh")

	require.Equal(t, StatusDown, checker.HealthCheck(context.Background()).Status)

	failing = false
	result := checker.HealthCheck(context.Background())
	assert.Equal(t, StatusUp, result.Status)
	assert.Empty(t, result.Details["last_error"])
}
