//go:build wireinject
// +build wireinject

package di

import (
	"context"
	"net/http"

	"plantdb/application/ports"
	"plantdb/application/services"
	"plantdb/infrastructure/config"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	PlantRepo ports.PlantRepository
	Index     ports.AliasIndex
	Service   *services.LookupService
	Handler   http.Handler
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideBedrockClient,
	ProvidePlantRepository,
	ProvideAliasIndex,
	ProvideAttributeGenerator,
	ProvideImageProvider,
	ProvideEventPublisher,
	ProvideLookupService,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
