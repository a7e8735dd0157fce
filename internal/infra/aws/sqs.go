package aws

import (
	"city-api/pkg/resource"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// NewSqsClient creates an SQS client, pointing it at a custom endpoint
// (LocalStack) when one is configured.
func NewSqsClient() *sqs.Client {
	endpoint := resource.GetString("app.aws.endpoint")

	return sqs.NewFromConfig(Config, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})
}
