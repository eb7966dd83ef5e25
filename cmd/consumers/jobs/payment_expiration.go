package jobs

import (
	"context"
	"log/slog"
	"time"

	"curvas/internal/messaging"
	"curvas/internal/models"
	"curvas/internal/repository"
)

const PaymentExpirationTimeout = 15 * time.Minute

// PaymentExpirationJob declines online payments that were never
// completed. Point-of-sale tickets are paid in cash and never expire.
type PaymentExpirationJob struct {
	ticketRepo *repository.TicketRepository
	natsClient *messaging.NATSClient
	ticker     *time.Ticker
	done       chan bool
}

func NewPaymentExpirationJob(ticketRepo *repository.TicketRepository, natsClient *messaging.NATSClient) *PaymentExpirationJob {
	return &PaymentExpirationJob{
		ticketRepo: ticketRepo,
		natsClient: natsClient,
		done:       make(chan bool),
	}
}

// Start begins the background job that checks for stale payments every
// 30 seconds.
func (j *PaymentExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting payment expiration job",
		"check_interval", "30s", "timeout", PaymentExpirationTimeout)

	j.ticker = time.NewTicker(30 * time.Second)

	go j.checkStalePayments(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.checkStalePayments(ctx)
			case <-j.done:
				slog.Info("Payment expiration job stopped")
				return
			}
		}
	}()
}

func (j *PaymentExpirationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *PaymentExpirationJob) checkStalePayments(ctx context.Context) {
	expirationTime := time.Now().Add(-PaymentExpirationTimeout)

	staleTickets, err := j.ticketRepo.GetStalePending(ctx, expirationTime)
	if err != nil {
		slog.Error("Failed to get stale pending payments", "error", err)
		return
	}

	if len(staleTickets) == 0 {
		return
	}

	slog.Info("Found stale pending payments", "count", len(staleTickets))

	for _, ticket := range staleTickets {
		if err := j.ticketRepo.UpdatePayment(ctx, ticket.ID, models.PaymentDeclined, nil); err != nil {
			slog.Error("Failed to decline stale payment",
				"error", err,
				"ticket_id", ticket.ID,
				"created_at", ticket.CreatedAt)
			continue
		}

		slog.Info("Declined stale payment",
			"ticket_id", ticket.ID,
			"elapsed_time", time.Since(ticket.CreatedAt).String())

		paymentID := ""
		if ticket.PaymentID != nil {
			paymentID = *ticket.PaymentID
		}
		if err := j.natsClient.Publish(models.EventPaymentResolved, models.PaymentResolvedEvent{
			TicketID:  ticket.ID,
			PaymentID: paymentID,
			Status:    models.PaymentDeclined,
			Timestamp: time.Now(),
		}); err != nil {
			slog.Error("Failed to publish payment resolved event",
				"ticket_id", ticket.ID, "error", err)
		}
	}
}
