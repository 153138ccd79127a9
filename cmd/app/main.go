package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fieldwork/cmd"
	adapterhttp "fieldwork/internal/adapters/in/http"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dsn := makeDSN(configs)
	mustPingDatabase(dsn)

	// TranslateError is required: the repositories rely on
	// gorm.ErrDuplicatedKey to surface job number conflicts.
	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	jobManager := app.CreateJobManager(configs)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:           goDotEnvVariable("HTTP_PORT"),
		DBHost:             goDotEnvVariable("DB_HOST"),
		DBPort:             goDotEnvVariable("DB_PORT"),
		DBUser:             goDotEnvVariable("DB_USER"),
		DBPassword:         goDotEnvVariable("DB_PASSWORD"),
		DBName:             goDotEnvVariable("DB_NAME"),
		DBSslMode:          goDotEnvVariable("DB_SSLMODE"),
		GeocoderBaseURL:    goDotEnvVariable("GEOCODER_BASE_URL"),
		GeocoderUserAgent:  goDotEnvVariable("GEOCODER_USER_AGENT"),
		NotifierWebhookURL: goDotEnvVariable("NOTIFIER_WEBHOOK_URL"),
		BroadcastSchedule:  goDotEnvVariable("BROADCAST_SCHEDULE"),
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

func makeDSN(configs cmd.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)
}

// mustPingDatabase verifies the database is reachable before GORM takes
// over the connection, so startup fails fast with a clear error.
func mustPingDatabase(dsn string) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	if err = db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := adapterhttp.NewServer(
		app.CreateCreateWorkerCommandHandler(),
		app.CreateCreateJobCommandHandler(),
		app.CreateStartJobCommandHandler(),
		app.CreateCompleteJobCommandHandler(),
		app.CreateCancelJobCommandHandler(),
		app.CreateDeleteJobCommandHandler(),
		app.CreateImportJobsCommandHandler(),
		app.CreateGetWorkerRouteQueryHandler(),
		app.CreateWageReportQueryHandler(),
		app.CreateMileageReportQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
