package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"curvas/internal/external"
	"curvas/internal/models"
	"curvas/internal/repository"
)

type Handlers struct {
	repos        *repository.Repositories
	mailerClient *external.MailerClient
}

func NewHandlers(repos *repository.Repositories, mailerClient *external.MailerClient) *Handlers {
	return &Handlers{
		repos:        repos,
		mailerClient: mailerClient,
	}
}

// HandleTicketCreated sends the purchase confirmation email. The slot
// list in the event is authoritative, no re-read is needed.
func (h *Handlers) HandleTicketCreated(m *stan.Msg) {
	var event models.TicketCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket created event", "error", err)
		return
	}

	slog.Info("Processing ticket created event",
		"ticket_id", event.TicketID, "match_id", event.MatchID)

	user, err := h.repos.Users.GetByID(context.Background(), event.UserID)
	if err != nil || user == nil {
		slog.Error("Failed to resolve buyer for confirmation email",
			"user_id", event.UserID, "error", err)
		m.Ack()
		return
	}

	if err := h.mailerClient.SendPurchaseConfirmation(user.Email, event.TicketNumber, event.Slots); err != nil {
		slog.Error("Failed to send purchase confirmation",
			"ticket_id", event.TicketID, "error", err)
	}

	m.Ack()
}

// HandleTicketSettled notifies the buyer of the settlement outcome.
func (h *Handlers) HandleTicketSettled(m *stan.Msg) {
	var event models.TicketSettledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket settled event", "error", err)
		return
	}

	slog.Info("Processing ticket settled event",
		"ticket_id", event.TicketID, "status", event.Status)

	user, err := h.repos.Users.GetByID(context.Background(), event.UserID)
	if err != nil || user == nil {
		slog.Error("Failed to resolve buyer for result email",
			"user_id", event.UserID, "error", err)
		m.Ack()
		return
	}

	if err := h.mailerClient.SendResult(user.Email, event.TicketNumber, event.Status, event.RewardAmount); err != nil {
		slog.Error("Failed to send result email",
			"ticket_id", event.TicketID, "error", err)
	}

	m.Ack()
}

// HandleMatchFinished logs the final tally for operations.
func (h *Handlers) HandleMatchFinished(m *stan.Msg) {
	var event models.MatchFinishedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal match finished event", "error", err)
		return
	}

	slog.Info("Match settled",
		"match_id", event.MatchID,
		"home_score", event.HomeScore,
		"away_score", event.AwayScore,
		"winners", event.Winners,
		"losers", event.Losers)

	m.Ack()
}

// HandleHouseWinsRecorded logs the audit trail entry.
func (h *Handlers) HandleHouseWinsRecorded(m *stan.Msg) {
	var event models.HouseWinsRecordedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal house wins event", "error", err)
		return
	}

	slog.Info("House wins recorded",
		"match_id", event.MatchID,
		"reason", event.Reason,
		"tickets_count", event.TicketsCount,
		"total_amount", event.TotalAmount)

	m.Ack()
}

// HandlePaymentResolved logs the gateway outcome; the ticket row was
// already updated by the API.
func (h *Handlers) HandlePaymentResolved(m *stan.Msg) {
	var event models.PaymentResolvedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment resolved event", "error", err)
		return
	}

	slog.Info("Payment resolved",
		"ticket_id", event.TicketID,
		"payment_id", event.PaymentID,
		"status", event.Status)

	m.Ack()
}
