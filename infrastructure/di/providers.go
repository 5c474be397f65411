package di

import (
	"context"
	"net/http"

	"plantdb/application/ports"
	"plantdb/application/services"
	"plantdb/infrastructure/config"
	"plantdb/infrastructure/enrichment/bedrock"
	"plantdb/infrastructure/enrichment/pexels"
	"plantdb/infrastructure/messaging/eventbridge"
	"plantdb/infrastructure/persistence/dynamodb"
	"plantdb/interfaces/http/rest"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsbedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideBedrockClient creates a Bedrock runtime client
func ProvideBedrockClient(awsCfg aws.Config) *awsbedrockruntime.Client {
	return awsbedrockruntime.NewFromConfig(awsCfg)
}

// ProvidePlantRepository creates the DynamoDB-backed record store
func ProvidePlantRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PlantRepository {
	return dynamodb.NewPlantRepository(
		client,
		cfg.DynamoDBTable,
		cfg.AliasPartitionValue,
		logger,
	)
}

// ProvideAliasIndex creates the GSI-backed alias index
func ProvideAliasIndex(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AliasIndex {
	return dynamodb.NewAliasIndex(
		client,
		cfg.DynamoDBTable,
		cfg.AliasIndexName,
		cfg.AliasPartitionValue,
		cfg.MinPrefixLength,
		logger,
	)
}

// ProvideAttributeGenerator creates the Bedrock generative provider
func ProvideAttributeGenerator(client *awsbedrockruntime.Client, cfg *config.Config, logger *zap.Logger) ports.AttributeGenerator {
	return bedrock.NewGenerator(client, cfg.BedrockModelID, logger)
}

// ProvideImageProvider creates the Pexels image search used on the read path
func ProvideImageProvider(cfg *config.Config, logger *zap.Logger) ports.ImageProvider {
	return pexels.NewClient(pexels.Config{
		APIKey:  cfg.PexelsAPIKey,
		BaseURL: cfg.PexelsBaseURL,
	}, logger)
}

// ProvideEventPublisher creates the mutation event publisher. An empty bus
// name disables event publishing.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideLookupService creates the lookup service
func ProvideLookupService(
	repo ports.PlantRepository,
	index ports.AliasIndex,
	generator ports.AttributeGenerator,
	images ports.ImageProvider,
	events ports.EventPublisher,
	cfg *config.Config,
	logger *zap.Logger,
) *services.LookupService {
	return services.NewLookupService(repo, index, generator, images, events, services.LookupOptions{
		MaxSearchResults: cfg.MaxSearchResults,
		MaxImages:        cfg.MaxImages,
	}, logger)
}

// ProvideRouter creates the configured HTTP handler
func ProvideRouter(service *services.LookupService, cfg *config.Config, logger *zap.Logger) http.Handler {
	return rest.NewRouter(service, cfg, logger).Setup()
}
