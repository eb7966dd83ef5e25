package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"curvas/cmd/consumers/jobs"
	"curvas/internal/config"
	"curvas/internal/consumers"
	"curvas/internal/logger"
)

func main() {
	log.Println("Starting consumers service...")

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Override NATS client ID for consumers
	cfg.NATS.ClientID = "curvas-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	if err := consumerService.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	expirationJob := jobs.NewPaymentExpirationJob(consumerService.Repos().Tickets, consumerService.NATS())
	expirationJob.Start(jobCtx)

	log.Println("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	expirationJob.Stop()
	cancelJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Consumers service stopped")
}
