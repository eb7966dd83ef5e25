package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "curvas/internal/errors"
	"curvas/internal/external"
	"curvas/internal/logger"
	"curvas/internal/metrics"
	"curvas/internal/models"
)

// PaymentGateway is the slice of the payment client the ticket service
// needs; nil disables online payments.
type PaymentGateway interface {
	CreateTransaction(amountInCents int64, reference, customerEmail string) (*external.TransactionResponse, error)
	GetTransaction(transactionID string) (*external.TransactionStatus, error)
}

// TicketService sells slots and maintains the ticket ledger.
type TicketService struct {
	tickets TicketStore
	matches MatchStore
	curvas  CurvaStore
	users   UserStore
	payment PaymentGateway
	events  Publisher
}

func NewTicketService(tickets TicketStore, matches MatchStore, curvas CurvaStore, users UserStore, payment PaymentGateway, events Publisher) *TicketService {
	return &TicketService{
		tickets: tickets,
		matches: matches,
		curvas:  curvas,
		users:   users,
		payment: payment,
		events:  events,
	}
}

// Purchase allocates the requested number of random slots and writes
// one ticket covering all of them. When the open curvas run out of
// slots mid-allocation a new curva is opened and the draw continues,
// so a purchase is never short-allocated.
func (s *TicketService) Purchase(ctx context.Context, req *models.PurchaseTicketRequest) (*models.PurchaseTicketResponse, error) {
	if req.Quantity < 1 {
		return nil, apperrors.ErrInvalidSlotQuantity
	}

	match, err := s.matches.GetByID(ctx, req.MatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, apperrors.ErrMatchNotFound
	}
	if match.Status == models.MatchFinished {
		return nil, apperrors.ErrMatchFinished
	}

	buyer, err := s.resolveBuyer(ctx, req)
	if err != nil {
		return nil, err
	}

	firstCurva := ""
	slots := make([]string, 0, req.Quantity)
	preferred := req.PreferredCurva
	for len(slots) < req.Quantity {
		curvaID, drawn, err := s.curvas.TakeSlots(ctx, req.MatchID, req.Quantity-len(slots), preferred)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate slots: %w", err)
		}
		// The preference only steers the first batch; overflow goes
		// wherever there is room.
		preferred = ""

		if curvaID == "" {
			if _, err := s.curvas.Open(ctx, req.MatchID); err != nil {
				return nil, fmt.Errorf("failed to open curva for match %d: %w", req.MatchID, err)
			}
			metrics.CurvasOpened.Inc()
			continue
		}

		if firstCurva == "" {
			firstCurva = curvaID
		}
		slots = append(slots, drawn...)
	}
	metrics.SlotsAllocated.Add(float64(len(slots)))

	orderID := uuid.New().String()
	ticket := &models.Ticket{
		MatchID:          req.MatchID,
		UserID:           buyer.UserID,
		CurvaID:          firstCurva,
		ResultsPurchased: slots,
		PayedAmount:      req.PayedAmount,
		Status:           models.TicketPending,
		SellerID:         req.SellerID,
		PaymentStatus:    models.PaymentPending,
		OrderID:          &orderID,
	}
	// Point-of-sale purchases are paid in cash at the counter.
	if req.SellerID != nil {
		ticket.PaymentStatus = models.PaymentApproved
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	metrics.TicketsSold.Inc()

	s.publish(models.EventTicketCreated, models.TicketCreatedEvent{
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		MatchID:      ticket.MatchID,
		UserID:       ticket.UserID,
		Slots:        ticket.ResultsPurchased,
		Timestamp:    time.Now(),
	})

	return &models.PurchaseTicketResponse{
		ID:               ticket.ID,
		TicketNumber:     ticket.TicketNumber,
		CurvaID:          ticket.CurvaID,
		ResultsPurchased: ticket.ResultsPurchased,
	}, nil
}

// List returns the tickets belonging to one user.
// TicketFilter narrows a ticket listing. CurvaID takes precedence over
// MatchID, which takes precedence over UserID.
type TicketFilter struct {
	UserID  int64
	MatchID int64
	CurvaID string
}

func (s *TicketService) List(ctx context.Context, filter TicketFilter) (models.ListTicketsResponse, error) {
	var (
		ticketList []models.Ticket
		err        error
	)
	switch {
	case filter.CurvaID != "":
		ticketList, err = s.tickets.GetByCurvaID(ctx, filter.CurvaID)
	case filter.MatchID != 0:
		ticketList, err = s.tickets.GetByMatchID(ctx, filter.MatchID)
	default:
		ticketList, err = s.tickets.GetByUserID(ctx, filter.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	response := make(models.ListTicketsResponse, 0, len(ticketList))
	for _, t := range ticketList {
		response = append(response, models.ListTicketsResponseItem{
			ID:               t.ID,
			TicketNumber:     t.TicketNumber,
			MatchID:          t.MatchID,
			CurvaID:          t.CurvaID,
			ResultsPurchased: t.ResultsPurchased,
			Status:           t.Status,
			Closed:           t.Closed,
			RewardAmount:     t.RewardAmount,
		})
	}
	return response, nil
}

// ChangeStatus is the administrative override on the ticket ledger.
// Setting the status a closed ticket already has is a no-op; any other
// change on a closed ticket requires force. Every change through here
// closes the ticket.
func (s *TicketService) ChangeStatus(ctx context.Context, req *models.ChangeTicketStatusRequest) error {
	switch req.Status {
	case models.TicketPending, models.TicketWon, models.TicketLost:
	default:
		return apperrors.ErrInvalidTicketStatus
	}

	ticket, err := s.tickets.GetByID(ctx, req.TicketID)
	if err != nil {
		return fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return apperrors.ErrTicketNotFound
	}

	if ticket.Closed {
		if ticket.Status == req.Status {
			return nil
		}
		if !req.Force {
			return apperrors.ErrTicketClosed
		}
	}

	if err := s.tickets.Settle(ctx, req.TicketID, req.Status, ticket.RewardAmount); err != nil {
		return fmt.Errorf("failed to change ticket %d status: %w", req.TicketID, err)
	}

	s.publish(models.EventTicketSettled, models.TicketSettledEvent{
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		MatchID:      ticket.MatchID,
		UserID:       ticket.UserID,
		Status:       req.Status,
		RewardAmount: ticket.RewardAmount,
		Timestamp:    time.Now(),
	})
	return nil
}

// InitiatePayment starts an online payment for a pending ticket and
// returns the gateway checkout URL.
func (s *TicketService) InitiatePayment(ctx context.Context, ticketID int64) (string, error) {
	if s.payment == nil {
		return "", fmt.Errorf("payment gateway is not configured")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return "", fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return "", apperrors.ErrTicketNotFound
	}
	if ticket.Closed {
		return "", apperrors.ErrTicketClosed
	}
	if ticket.PaymentStatus == models.PaymentApproved {
		return "", fmt.Errorf("ticket %d is already paid", ticketID)
	}

	reference := ""
	if ticket.OrderID != nil {
		reference = *ticket.OrderID
	} else {
		reference = uuid.New().String()
	}

	tx, err := s.payment.CreateTransaction(ticket.PayedAmount, reference, "")
	if err != nil {
		return "", fmt.Errorf("failed to create payment transaction: %w", err)
	}

	paymentID := tx.Data.ID
	if err := s.tickets.UpdatePayment(ctx, ticket.ID, models.PaymentPending, &paymentID); err != nil {
		return "", fmt.Errorf("failed to record payment id for ticket %d: %w", ticket.ID, err)
	}

	s.publish(models.EventPaymentInitiated, models.PaymentInitiatedEvent{
		TicketID:  ticket.ID,
		PaymentID: paymentID,
		Amount:    ticket.PayedAmount,
		Timestamp: time.Now(),
	})

	return tx.Data.CheckoutURL, nil
}

// HandlePaymentNotification applies a gateway webhook to the ticket it
// references. Unknown payment references are ignored so gateway
// retries for stale transactions don't error endlessly.
func (s *TicketService) HandlePaymentNotification(ctx context.Context, payload *models.PaymentNotificationPayload) error {
	ticket, err := s.lookupByPayment(ctx, payload)
	if err != nil {
		return err
	}
	if ticket == nil {
		logger.Get().Warn("payment notification for unknown ticket",
			"payment_id", payload.PaymentID, "reference", payload.Reference)
		return nil
	}

	status := mapGatewayStatus(payload.Status)
	if status == "" {
		logger.Get().Warn("ignoring payment notification with unknown status",
			"payment_id", payload.PaymentID, "status", payload.Status)
		return nil
	}

	var paymentID *string
	if payload.PaymentID != "" {
		paymentID = &payload.PaymentID
	}
	if err := s.tickets.UpdatePayment(ctx, ticket.ID, status, paymentID); err != nil {
		return fmt.Errorf("failed to apply payment notification to ticket %d: %w", ticket.ID, err)
	}

	s.publish(models.EventPaymentResolved, models.PaymentResolvedEvent{
		TicketID:  ticket.ID,
		PaymentID: payload.PaymentID,
		Status:    status,
		Timestamp: time.Now(),
	})
	return nil
}

// ResolvePaymentRedirect handles the browser coming back from the
// gateway checkout page. The orderID travels in the redirect URL.
func (s *TicketService) ResolvePaymentRedirect(ctx context.Context, orderID string, approved bool) error {
	ticket, err := s.tickets.GetByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get ticket by order: %w", err)
	}
	if ticket == nil {
		return apperrors.ErrTicketNotFound
	}

	status := models.PaymentDeclined
	if approved {
		status = models.PaymentApproved
	}
	if err := s.tickets.UpdatePayment(ctx, ticket.ID, status, ticket.PaymentID); err != nil {
		return fmt.Errorf("failed to resolve payment for ticket %d: %w", ticket.ID, err)
	}

	paymentID := ""
	if ticket.PaymentID != nil {
		paymentID = *ticket.PaymentID
	}
	s.publish(models.EventPaymentResolved, models.PaymentResolvedEvent{
		TicketID:  ticket.ID,
		PaymentID: paymentID,
		Status:    status,
		Timestamp: time.Now(),
	})
	return nil
}

func (s *TicketService) lookupByPayment(ctx context.Context, payload *models.PaymentNotificationPayload) (*models.Ticket, error) {
	if payload.PaymentID != "" {
		ticket, err := s.tickets.GetByPaymentID(ctx, payload.PaymentID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up ticket by payment id: %w", err)
		}
		if ticket != nil {
			return ticket, nil
		}
	}
	if payload.Reference != "" {
		ticket, err := s.tickets.GetByOrderID(ctx, payload.Reference)
		if err != nil {
			return nil, fmt.Errorf("failed to look up ticket by order id: %w", err)
		}
		return ticket, nil
	}
	return nil, nil
}

func (s *TicketService) resolveBuyer(ctx context.Context, req *models.PurchaseTicketRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.BuyerEmail))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up buyer: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{
		Email:     email,
		FirstName: req.BuyerFirstName,
		Surname:   req.BuyerSurname,
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create buyer: %w", err)
	}
	return user, nil
}

func mapGatewayStatus(status string) string {
	switch strings.ToUpper(status) {
	case "APPROVED":
		return models.PaymentApproved
	case "DECLINED", "VOIDED", "ERROR":
		return models.PaymentDeclined
	default:
		return ""
	}
}

func (s *TicketService) publish(subject string, event interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(subject, event); err != nil {
		logger.Get().Warn("failed to publish event", "subject", subject, "error", err)
	}
}
