package config

import (
	"context"
	"log"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-xray-sdk-go/xray"
)

// ConnectDynamo builds the DynamoDB client all lookups and the slot store
// share.
func ConnectDynamo(ctx context.Context) (*dynamodb.Client, error) {
	region := GetEnvDefault("AWS_REGION", "sa-east-1")
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}

	log.Printf("DynamoDB client ready in %s", region)
	return dynamodb.NewFromConfig(awsCfg), nil
}

// ConfigureTracing sets up X-Ray when ENABLE_TRACING is on. Store calls
// open subsegments unconditionally; without a daemon the missing-context
// strategy turns them into log lines instead of panics.
func ConfigureTracing() {
	os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")

	if GetEnv("ENABLE_TRACING") == "" {
		return
	}
	if err := xray.Configure(xray.Config{
		DaemonAddr:     GetEnvDefault("XRAY_DAEMON_ADDR", "127.0.0.1:2000"),
		ServiceVersion: "1.0.0",
	}); err != nil {
		log.Printf("Failed to configure X-Ray: %v", err)
	}
}
