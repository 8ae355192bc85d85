// Package di hand-wires the application's dependency graph. Providers build
// one dependency each; Build assembles the container the server runs on.
package di

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"storefront-backend/application/services"
	"storefront-backend/infrastructure/config"
	"storefront-backend/infrastructure/persistence/dynamodb"
	"storefront-backend/infrastructure/persistence/storage"
	"storefront-backend/interfaces/http/rest"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/observability"
)

// Container holds the fully wired application.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	Catalog *services.CatalogService
	Reviews *services.ReviewService
	CMS     *services.CMSService
	Content *services.ContentService

	Handler http.Handler
}

// Build wires the container from configuration.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.EnableMetrics {
		metrics = observability.NewMetrics()
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := ProvideDynamoDBClient(awsCfg, cfg)
	gateway := storage.NewDynamoGateway(client, cfg.DynamoDBTable, logger, metrics)

	return buildWithGateway(cfg, gateway, logger, metrics), nil
}

// BuildInMemory wires the container over the in-memory gateway. Used by local
// development and integration tests.
func BuildInMemory(cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.EnableMetrics {
		metrics = observability.NewMetrics()
	}
	return buildWithGateway(cfg, storage.NewMemoryGateway(), logger, metrics), nil
}

func buildWithGateway(cfg *config.Config, gateway storage.Gateway, logger *zap.Logger, metrics *observability.Metrics) *Container {
	categories := dynamodb.NewCategoryRepository(gateway, logger)
	products := dynamodb.NewProductRepository(gateway, logger)
	reviews := dynamodb.NewReviewRepository(gateway, logger)
	pages := dynamodb.NewPageRepository(gateway, logger)
	components := dynamodb.NewComponentRepository(gateway, logger)
	content := dynamodb.NewContentRepository(gateway, logger)

	slugs := services.NewSlugResolver(logger)
	rollupMetrics := metrics
	if rollupMetrics == nil {
		rollupMetrics = observability.NewMetrics()
	}
	aggregates := services.NewAggregateMaintainer(categories, products, reviews, logger, rollupMetrics)

	catalog := services.NewCatalogService(categories, products, slugs, aggregates, logger)
	reviewService := services.NewReviewService(reviews, products, aggregates, logger)
	cms := services.NewCMSService(pages, components, slugs, logger)
	contentService := services.NewContentService(content, slugs, logger)

	errorHandler := pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
	router := rest.NewRouter(
		catalog,
		reviewService,
		cms,
		contentService,
		errorHandler,
		metrics,
		logger,
		cfg.EnableCORS,
		cfg.AllowedOrigins,
	)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Catalog: catalog,
		Reviews: reviewService,
		CMS:     cms,
		Content: contentService,
		Handler: router.Setup(),
	}
}

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

// ProvideDynamoDBClient creates a DynamoDB client. A configured endpoint
// overrides service resolution for local DynamoDB.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}
