package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recetario/backend/config"
	"github.com/recetario/backend/internal/api"
	"github.com/recetario/backend/internal/database"
	"github.com/recetario/backend/internal/middleware"
	"github.com/recetario/backend/internal/router"
	"github.com/recetario/backend/internal/server"
	"github.com/recetario/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	emailService := service.NewSMTPEmailService(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom,
	)
	codeStore := service.NewRedisResetCodeStore(redisClient)

	authService := service.NewAuthService(db, cfg.JWTSecret, codeStore, emailService)
	recipeService := service.NewRecipeService(db)
	moderationService := service.NewModerationService(db)
	savedService := service.NewSavedRecipeService(db)

	limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window:    time.Minute,
		Limit:     30,
		KeyPrefix: "ratelimit",
	})

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService),
		api.NewModerationHandler(moderationService),
		api.NewSavedRecipeHandler(savedService),
		authService,
		limiter,
	)

	srv := server.New(engine, cfg.ServerHost, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
