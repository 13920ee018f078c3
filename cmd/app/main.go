package main

import (
	"context"
	"fmt"
	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres/commlogrepo"
	"fulfillment/internal/adapters/out/postgres/jobstore"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/supplierrepo"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	queueManager := app.CreateQueueManager()
	queueManager.StartAll()
	defer queueManager.StopAll()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting scheduled jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:                 goDotEnvVariable("HTTP_PORT"),
		DBHost:                   goDotEnvVariable("DB_HOST"),
		DBPort:                   goDotEnvVariable("DB_PORT"),
		DBUser:                   goDotEnvVariable("DB_USER"),
		DBPassword:               goDotEnvVariable("DB_PASSWORD"),
		DBName:                   goDotEnvVariable("DB_NAME"),
		DBSslMode:                goDotEnvVariable("DB_SSLMODE"),
		RedisURL:                 goDotEnvVariable("REDIS_URL"),
		SupplierRetryDelay:       goDotEnvVariable("SUPPLIER_RETRY_DELAY"),
		ReprocessCooldown:        goDotEnvVariable("REPROCESS_COOLDOWN"),
		DelayThreshold:           goDotEnvVariable("DELAY_THRESHOLD"),
		MaxWaitingJobs:           goDotEnvVariable("MAX_WAITING_JOBS"),
		MaxFailedJobs:            goDotEnvVariable("MAX_FAILED_JOBS"),
		MinOnTimeDeliveryRate:    goDotEnvVariable("MIN_ON_TIME_DELIVERY_RATE"),
		MinSendSuccessRate:       goDotEnvVariable("MIN_SEND_SUCCESS_RATE"),
		ScheduleTrackingSync:     goDotEnvVariable("SCHEDULE_TRACKING_SYNC"),
		ScheduleDelayedOrders:    goDotEnvVariable("SCHEDULE_DELAYED_ORDERS"),
		ScheduleCleanup:          goDotEnvVariable("SCHEDULE_CLEANUP"),
		SchedulePerformanceCheck: goDotEnvVariable("SCHEDULE_PERFORMANCE_CHECK"),
		ScheduleReprocess:        goDotEnvVariable("SCHEDULE_REPROCESS"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&supplierrepo.SupplierDTO{},
		&supplierrepo.SupplierSKUDTO{},
		&commlogrepo.RecordDTO{},
		&jobstore.JobDTO{},
	)
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e := echo.New()
	app.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			logger.Info("web server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if err := e.Shutdown(context.Background()); err != nil {
		logger.Error("web server shutdown", "error", err)
	}
}
