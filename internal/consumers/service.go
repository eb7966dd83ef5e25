package consumers

import (
	"context"
	"log/slog"

	"curvas/internal/config"
	"curvas/internal/database"
	"curvas/internal/external"
	"curvas/internal/messaging"
	"curvas/internal/models"
	"curvas/internal/repository"
)

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	mailerClient := external.NewMailerClient(cfg.Mailer)

	handlers := NewHandlers(repos, mailerClient)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

// Repos exposes the repositories for background jobs sharing this
// service's database pool.
func (cs *ConsumerService) Repos() *repository.Repositories {
	return cs.repos
}

func (cs *ConsumerService) NATS() *messaging.NATSClient {
	return cs.nats
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue(models.EventTicketCreated, "consumers", cs.handlers.HandleTicketCreated)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventTicketSettled, "consumers", cs.handlers.HandleTicketSettled)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventMatchFinished, "consumers", cs.handlers.HandleMatchFinished)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventHouseWinsRecorded, "consumers", cs.handlers.HandleHouseWinsRecorded)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventPaymentResolved, "consumers", cs.handlers.HandlePaymentResolved)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
