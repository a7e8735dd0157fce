package main

import (
	"context"
	"strings"
	"time"

	_ "city-api/configs"
	"city-api/internal/application/controller"
	"city-api/internal/application/middleware"
	"city-api/internal/application/processor"
	"city-api/internal/application/schedule"
	"city-api/internal/domain/entity"
	"city-api/internal/domain/gateway/api"
	"city-api/internal/domain/gateway/db"
	"city-api/internal/domain/model"
	"city-api/internal/domain/usecase/auth"
	"city-api/internal/domain/usecase/city"
	"city-api/internal/domain/usecase/health"
	"city-api/internal/domain/usecase/user"
	"city-api/internal/infra/aws"
	"city-api/internal/infra/database/gorm"
	"city-api/pkg/http"
	"city-api/pkg/log"
	"city-api/pkg/msg"
	"city-api/pkg/redis"
	"city-api/pkg/resource"
	"city-api/pkg/sqs"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const bootstrapAdminUsername = "admin"

func main() {
	log.Info(msg.GetMessage("app.start"))

	ctx := context.Background()

	// Init infra
	if err := gorm.Db.AutoMigrate(&entity.City{}, &entity.User{}); err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	redisClient := newRedisClient()
	defer func() { _ = redisClient.Close() }()

	upstreamCache := redis.NewCache(redisClient, redis.NewCacheOptions().
		WithCacheName(api.UpstreamCacheName))

	sqsClient := aws.NewSqsClient()
	queueSender := aws.NewSQSSenderAdapter(sqsClient)
	queueName := resource.GetString("app.queue.attraction-refresh")

	e := echo.New()
	e.HideBanner = true
	middleware.SetupRequestLogger(e)
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     strings.Split(resource.GetString("app.cors.allow-origins"), ","),
		AllowCredentials: true,
	}))
	apiGroup := e.Group(resource.GetString("app.server.context-path"))

	// Init Gateways
	cityGateway := db.NewGormCityGateway(gorm.Db)
	userGateway := db.NewGormUserGateway(gorm.Db)
	healthGateway := db.NewGormHealthDBGateway(gorm.Db)
	placesGateway := api.NewPlacesGateway(newPlacesGatewayConfig(), upstreamCache)

	// Init UseCases
	cityUseCase := city.NewCityUseCase(queueName, 10, queueSender, placesGateway, cityGateway)
	authUseCase := auth.NewAuthUseCase(userGateway, resource.GetString("app.auth.jwt-secret"),
		resource.GetDuration("app.auth.token-duration"))
	userUseCase := user.NewUserUseCase(userGateway, cityGateway, bootstrapAdminUsername)
	healthUseCase := health.NewHealthUseCase(healthGateway,
		redis.NewHealthChecker(redisClient), sqs.NewHealthChecker(sqsClient, queueName))

	if err := authUseCase.EnsureAdminAccount(
		bootstrapAdminUsername,
		resource.GetString("app.auth.admin-email"),
		resource.GetString("app.auth.admin-password"),
	); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Init Controllers
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)
	secureCookie := resource.GetString("app.environment") == "production"

	healthController := controller.NewHealthController(apiGroup, healthUseCase)
	cityController := controller.NewCityController(apiGroup, cityUseCase, authMiddleware)
	authController := controller.NewAuthController(apiGroup, authUseCase, secureCookie)
	adminController := controller.NewAdminController(apiGroup, userUseCase, authMiddleware)

	// Init Routes
	healthController.InitHealthRoutes()
	cityController.InitCityRoutes()
	authController.InitAuthRoutes()
	adminController.InitAdminRoutes()

	// Init Schedules
	attractionScheduler := schedule.NewAttractionScheduler(
		cityUseCase,
		redisClient,
		resource.GetString("app.schedule.attraction-refresh-cron"),
		10*time.Minute,
		time.Minute,
	)
	attractionScheduler.InitAttractionScheduleTasks(ctx)

	retention := time.Duration(resource.GetInt("app.schedule.snapshot-cleanup-days")) * 24 * time.Hour
	cleanupScheduler, err := schedule.NewCityCleanupScheduler(cityUseCase, retention)
	if err != nil {
		log.Fatalf("Failed to create cleanup scheduler: %v", err)
	}
	if err := cleanupScheduler.InitCleanupTasks(); err != nil {
		log.Fatalf("Failed to start cleanup scheduler: %v", err)
	}

	// Init queue worker
	startAttractionWorker(ctx, sqsClient, queueName, cityUseCase)

	// Start Routes
	e.Logger.Fatal(e.Start(":" + resource.GetString("app.server.port")))
}

func newRedisClient() *redis.Client {
	config := redis.NewRedisConfig().
		WithHost(resource.GetString("app.redis.host")).
		WithPort(resource.GetInt("app.redis.port")).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database")).
		WithDefaultCacheTTL(resource.GetDuration("app.redis.cache.default-ttl")).
		WithCacheTTL(api.UpstreamCacheName, resource.GetDuration("app.redis.cache.upstream-ttl"))

	return redis.NewClient(config)
}

func newPlacesGatewayConfig() api.PlacesGatewayConfig {
	return api.PlacesGatewayConfig{
		GeoDBBaseURL:       resource.GetString("app.external.geodb.url"),
		WeatherBaseURL:     resource.GetString("app.external.weather.url"),
		OpenTripMapBaseURL: resource.GetString("app.external.opentripmap.url"),
		SearchInfo: model.SearchInfoConfig{
			RapidAPIKey:       resource.GetString("app.external.geodb.rapidapi-key"),
			RapidAPIHost:      resource.GetString("app.external.geodb.rapidapi-host"),
			CityLimit:         resource.GetInt("app.external.geodb.city-limit"),
			WeatherAPIKey:     resource.GetString("app.external.weather.api-key"),
			ForecastDays:      resource.GetInt("app.external.weather.forecast-days"),
			OpenTripMapAPIKey: resource.GetString("app.external.opentripmap.api-key"),
			RadiusMeters:      resource.GetInt("app.external.opentripmap.radius-meters"),
			CategoryLimit:     resource.GetInt("app.external.opentripmap.category-limit"),
		},
		ClientOptions: http.ClientOptions{
			DefaultBackoff: &http.BackoffConfig{
				MaxAttempts: resource.GetInt("app.http.max-attempts"),
				BaseDelay:   resource.GetDuration("app.http.base-delay"),
			},
			Logger: &http.ZapHTTPLogger{},
		},
	}
}

func startAttractionWorker(ctx context.Context, sqsClient sqs.WorkerClient, queueName string, cityUseCase city.UseCase) {
	attractionProcessor := processor.NewAttractionProcessor(cityUseCase)

	worker, err := sqs.NewWorker(ctx, sqsClient, queueName, attractionProcessor, &sqs.WorkerConfig{
		PoolSize: resource.GetInt("app.queue.worker-pool-size"),
		LogLevel: sqs.ErrorLevel,
	})
	if err != nil {
		log.Errorf("Failed to start attraction worker, queue consumption disabled: %v", err)
		return
	}

	log.Info(msg.GetMessage("queue.processor.start", queueName))
	go worker.Start(ctx)
}
