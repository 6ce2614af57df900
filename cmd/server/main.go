package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/citysky/weather/internal/delivery/http"
	"github.com/citysky/weather/internal/repository/postgres"
	"github.com/citysky/weather/internal/service"
	"github.com/citysky/weather/internal/telemetry"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := loadConfig()
	if cfg.OpenWeatherAPIKey == "" {
		log.Fatal("OPENWEATHER_API_KEY environment variable not set")
	}

	// Tracing: exported over OTLP only when a collector is configured
	shutdownTracing, err := telemetry.SetupTracing(context.Background(), "citysky-weather", cfg.OTLPEndpoint)
	if err != nil {
		log.Printf("Warning: tracing disabled: %v", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	// Lookup log: PostgreSQL when configured, in-memory otherwise
	var repo service.LookupRepository = postgres.NewMockRepository()
	if cfg.DatabaseURL != "" {
		if pool := connectDatabase(cfg.DatabaseURL); pool != nil {
			defer pool.Close()
			repo = postgres.NewPostgresRepository(pool)
		}
	}

	// Dependency Injection: Services
	weatherSvc := service.NewWeatherService(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.WeatherTimeout)
	session := service.NewSession(weatherSvc, repo)

	app := fiber.New(fiber.Config{
		AppName:      "CitySky Weather v1.0",
		Immutable:    true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*cfg.WeatherTimeout + 5*time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	http.SetupRoutes(app, session, repo)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.Port, cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	session.WaitBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("Failed to flush traces: %v", err)
	}
	log.Println("Server exited gracefully")
}

// connectDatabase returns nil when the database is unreachable so the
// server can still run with the in-memory log.
func connectDatabase(url string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		log.Printf("Warning: Database ping failed: %v", err)
		pool.Close()
		return nil
	}

	repo := postgres.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("Warning: %v", err)
		pool.Close()
		return nil
	}

	log.Println("Connected to PostgreSQL")
	return pool
}

type Config struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	WeatherTimeout     time.Duration
	DatabaseURL        string
	OTLPEndpoint       string
	Port               string
	Env                string
}

func loadConfig() *Config {
	return &Config{
		OpenWeatherAPIKey:  getEnv("OPENWEATHER_API_KEY", ""),
		OpenWeatherBaseURL: getEnv("OPENWEATHER_BASE_URL", service.DefaultBaseURL),
		WeatherTimeout:     time.Duration(getEnvInt("WEATHER_TIMEOUT_SECONDS", 10)) * time.Second,
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("Ignoring invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
