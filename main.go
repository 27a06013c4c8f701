package main

import (
	"context"
	"log"
	"net/http"
	"os"
	_ "time/tzdata"

	"coworkly/config"
	"coworkly/controllers"
	"coworkly/jobs"
	"coworkly/routes"
	"coworkly/services"
	"coworkly/services/logger"
	"coworkly/services/notification"
	"coworkly/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()
	config.ConfigureTracing()

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	ctx := context.Background()
	dynamoClient, err := config.ConnectDynamo(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to DynamoDB: %v", err)
	}

	redisClient, err := config.ConnectRedis()
	if err != nil {
		log.Printf("Warning: Redis unavailable, hoster listings will not be cached: %v", err)
		redisClient = nil
	}

	appLogger := logger.NewDefaultLogger(logger.InfoLevel)
	zone := config.SpaceLocation()

	slotStore := storage.NewDynamoSlotStore(dynamoClient, config.ReservationsTable())
	spaceLookup := storage.NewDynamoSpaceLookup(dynamoClient, config.SpacesTable())
	userLookup := storage.NewDynamoUserLookup(dynamoClient, config.UsersTable())

	reservationService := services.NewReservationService(services.ReservationServiceOptions{
		Store:  slotStore,
		Spaces: spaceLookup,
		Users:  userLookup,
		Logger: appLogger,
		Zone:   zone,
	})
	lifecycleService := services.NewLifecycleService(services.LifecycleServiceOptions{
		Store:  slotStore,
		Spaces: spaceLookup,
		Logger: appLogger,
		Zone:   zone,
	})
	materializer := services.NewExpiryMaterializer(services.ExpiryMaterializerOptions{
		Store:  slotStore,
		Logger: appLogger,
		Zone:   zone,
	})
	listingService := services.NewListingService(services.ListingServiceOptions{
		Store:        slotStore,
		Spaces:       spaceLookup,
		Users:        userLookup,
		Materializer: materializer,
		Redis:        redisClient,
		Logger:       appLogger,
	})

	reservationController := controllers.NewReservationController(controllers.ReservationControllerOptions{
		Reservations: reservationService,
		Lifecycle:    lifecycleService,
		Listing:      listingService,
		Notifier:     notification.NewMelodyService(m),
		Logger:       appLogger,
	})

	jobs.SetDriftReporter(lifecycleService)
	if err := jobs.InitCronJobs(c); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, reservationController)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
