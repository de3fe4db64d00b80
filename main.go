// File: hireloop/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hireloop/config"
	"hireloop/cron"
	"hireloop/database"
	notificationRepo "hireloop/database/repository/notification"
	requestRepo "hireloop/database/repository/request"
	txRepo "hireloop/database/repository/transaction"
	"hireloop/handlers"
	"hireloop/middleware"
	"hireloop/routes"
	"hireloop/services/notification"
	request "hireloop/services/request"
	"hireloop/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.New(routes.CORSConfig()))

	// repositories.
	reqRepo := requestRepo.NewMongoRequestRepo()
	ledgerRepo := txRepo.NewMongoTransactionRepo()
	notifRepo := notificationRepo.NewMongoNotificationRepo()

	// services.
	dispatcher := notification.NewAsynqDispatcher(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer dispatcher.Close()

	notifService, err := notification.NewDefaultNotificationService(notifRepo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	geoIndex := request.NewRedisGeoIndex(utils.GetGeoClient())
	requestService := request.NewDefaultRequestService(reqRepo, geoIndex, ledgerRepo, dispatcher)

	// handlers.
	requestHandler := handlers.NewRequestHandler(requestService)
	transactionHandler := handlers.NewTransactionHandler(ledgerRepo)
	notificationHandler := handlers.NewNotificationHandler(notifService)

	rateLimiter := middleware.NewRedisRateLimiter(utils.GetRateClient(), config.AppConfig.MaxRequestsPerMin)

	// routes.
	routes.RegisterHealthRoute(router)
	routes.RegisterRequestRoutes(router, requestHandler, rateLimiter)
	routes.RegisterTransactionRoutes(router, transactionHandler)
	routes.RegisterNotificationRoutes(router, notificationHandler)

	// background workers.
	sweeper := cron.NewExpirationSweeper(requestService)
	if err := sweeper.Start(); err != nil {
		logger.Sugar().Fatalf("main: failed to start expiration sweeper: %v", err)
	}
	cron.InitNotificationWorker(notifService)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("main: listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	sweeper.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
}
