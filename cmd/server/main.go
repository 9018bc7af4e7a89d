package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/config"
	"github.com/ErikLozanov/job-application-tracker/internal/database"
	"github.com/ErikLozanov/job-application-tracker/internal/handlers"
	"github.com/ErikLozanov/job-application-tracker/internal/mailer"
	"github.com/ErikLozanov/job-application-tracker/internal/middleware"
	"github.com/ErikLozanov/job-application-tracker/internal/repository"
	"github.com/ErikLozanov/job-application-tracker/internal/resume"
	"github.com/ErikLozanov/job-application-tracker/internal/routes"
	"github.com/ErikLozanov/job-application-tracker/internal/services"
	"github.com/ErikLozanov/job-application-tracker/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env when present
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs single-use reset tokens and the AI rate limiter
	var redisClient *redis.Client
	var resetStore repository.ResetTokenStore
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		resetStore = repository.NewResetTokenStore(redisClient)
	} else {
		log.Println("REDIS_ADDR not set: reset tokens are not single-use and AI routes are not rate limited")
	}

	// Resume storage
	var blobs storage.BlobStore
	uploadsDir := ""
	switch cfg.StorageDriver {
	case "s3", "minio":
		store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		blobs = store
	case "local":
		store, err := storage.NewLocalStore(cfg.StorageLocalDir, cfg.PublicBaseURL+"/uploads")
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		blobs = store
		uploadsDir = store.Dir()
	default:
		log.Fatalf("Unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	// Mail
	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.JWTSessionExpiry, cfg.JWTResetExpiry)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	// Initialize AI generator
	generator, err := services.NewTextGenerator(ctx, services.GeneratorConfig{
		Provider:      cfg.AIProvider,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		Model:         cfg.AIModel,
	})
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	if generator == nil {
		log.Printf("AI provider %q has no API key: AI routes will return 503", cfg.AIProvider)
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	jobRepo := repository.NewJobRepository(database.GetDB())

	authService := services.NewAuthService(userRepo, tokens, resetStore, mail, blobs, cfg.ClientURL)
	jobService := services.NewJobService(jobRepo, blobs)
	assistant := services.NewAssistantService(jobService, resume.NewPDFExtractor(blobs), generator)

	// Initialize router
	r := gin.Default()
	routes.Setup(r, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Jobs:   handlers.NewJobHandler(jobService),
		AI:     handlers.NewAIHandler(assistant),
		Health: handlers.NewHealthHandler(),
	}, routes.Options{
		AllowedOrigins: cfg.CORSAllowedOrigin,
		Authenticator:  authService,
		AIRateLimiter:  middleware.NewAIRateLimiter(redisClient, cfg.AIRateLimitPerHour),
		UploadsDir:     uploadsDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
