package main

import (
	"ProjectKwik/internal/config"
	"ProjectKwik/pkg/log"
	"ProjectKwik/pkg/redis"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const cleanupInterval = time.Hour

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithBcryptUtils(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go runDetectionJanitor(janitorCtx, server, logger)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	stopJanitor()
}

// runDetectionJanitor drops detection sessions that aged past retention.
// Runs once at startup, then hourly.
func runDetectionJanitor(ctx context.Context, server *config.Server, logger *logrus.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		removed, err := server.PdpService().CleanupExpired(ctx)
		if err != nil {
			logger.Errorf("Detection cleanup failed: %v", err)
		} else if removed > 0 {
			logger.Infof("Detection cleanup removed %d expired sessions", removed)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
