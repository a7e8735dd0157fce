package sqs

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// HealthStatus represents the health status of the queue connection
type HealthStatus string

const (
	StatusUp   HealthStatus = "UP"
	StatusDown HealthStatus = "DOWN"
)

// QueueHealthCheck represents the health check response for a SQS queue
type QueueHealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthClient defines the interface for SQS health probe operations
type HealthClient interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

// HealthChecker provides SQS queue health checking functionality
type HealthChecker struct {
	client    HealthClient
	queueName string
	lastError string
}

// NewHealthChecker creates a new SQS queue health checker
func NewHealthChecker(client HealthClient, queueName string) *HealthChecker {
	return &HealthChecker{client: client, queueName: queueName}
}

// HealthCheck resolves the queue URL and reads its attributes to verify the
// queue is reachable
func (h *HealthChecker) HealthCheck(ctx context.Context) QueueHealthCheck {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := StatusUp
	messageCount := ""

	queueURL, err := h.resolveQueueURL(ctx)
	if err == nil {
		messageCount, err = h.readMessageCount(ctx, queueURL)
	}
	if err != nil {
		status = StatusDown
	} else {
		h.lastError = ""
	}

	details := map[string]string{
		"queue_name":                     h.queueName,
		"approximate_number_of_messages": messageCount,
		"last_check":                     time.Now().Format(time.RFC3339),
		"last_error":                     h.lastError,
	}

	return QueueHealthCheck{
		Status:  status,
		Details: details,
	}
}

func (h *HealthChecker) resolveQueueURL(ctx context.Context) (string, error) {
	result, err := h.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: &h.queueName,
	})
	if err != nil {
		h.lastError = fmt.Sprintf("queue URL lookup failed: %v", err)
		return "", err
	}
	return *result.QueueUrl, nil
}

func (h *HealthChecker) readMessageCount(ctx context.Context, queueURL string) (string, error) {
	result, err := h.client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       &queueURL,
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameApproximateNumberOfMessages},
	})
	if err != nil {
		h.lastError = fmt.Sprintf("queue attributes lookup failed: %v", err)
		return "", err
	}
	return result.Attributes[string(types.QueueAttributeNameApproximateNumberOfMessages)], nil
}
