package aws

import (
	"context"
	"log"

	"city-api/pkg/resource"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

var Config aws.Config

func init() {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(resource.GetString("app.aws.region")),
	}

	// Static credentials are only set when provided, otherwise the default
	// credential chain applies (environment variables, IAM roles, ...).
	if accessKey := resource.GetString("app.aws.access-key-id"); accessKey != "" {
		if secretKey := resource.GetString("app.aws.secret-access-key"); secretKey != "" {
			opts = append(opts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
			))
		}
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Fatalf("Failed to load AWS configuration: %v", err)
	}

	Config = cfg
}
