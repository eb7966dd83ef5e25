package repository

import (
	"context"
	"database/sql"
	"time"

	"curvas/internal/database"
	"curvas/internal/models"

	"github.com/lib/pq"
)

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, ticket_number, match_id, user_id, curva_id, results_purchased,
	       payed_amount, status, closed, reward_amount, seller_id,
	       payment_status, payment_id, order_id, created_at, updated_at`

func scanTicket(row interface{ Scan(...interface{}) error }, t *models.Ticket) error {
	return row.Scan(
		&t.ID,
		&t.TicketNumber,
		&t.MatchID,
		&t.UserID,
		&t.CurvaID,
		pq.Array(&t.ResultsPurchased),
		&t.PayedAmount,
		&t.Status,
		&t.Closed,
		&t.RewardAmount,
		&t.SellerID,
		&t.PaymentStatus,
		&t.PaymentID,
		&t.OrderID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

// Create inserts a ticket. The ticket number comes from the
// ticket_numbers sequence default, an atomic increment-and-get, so
// concurrent purchases never race on the counter.
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (match_id, user_id, curva_id, results_purchased, payed_amount,
		                     status, payment_status, seller_id, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, ticket_number, closed, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		ticket.MatchID,
		ticket.UserID,
		ticket.CurvaID,
		pq.Array(ticket.ResultsPurchased),
		ticket.PayedAmount,
		ticket.Status,
		ticket.PaymentStatus,
		ticket.SellerID,
		ticket.OrderID,
	).Scan(&ticket.ID, &ticket.TicketNumber, &ticket.Closed, &ticket.CreatedAt, &ticket.UpdatedAt)

	return err
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	err := scanTicket(r.db.QueryRowContext(ctx, query, id), ticket)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

func (r *TicketRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryTickets(ctx, query, userID)
}

func (r *TicketRepository) GetByMatchID(ctx context.Context, matchID int64) ([]models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE match_id = $1 ORDER BY ticket_number`
	return r.queryTickets(ctx, query, matchID)
}

func (r *TicketRepository) GetByCurvaID(ctx context.Context, curvaID string) ([]models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE curva_id = $1 ORDER BY ticket_number`
	return r.queryTickets(ctx, query, curvaID)
}

func (r *TicketRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE payment_id = $1`

	err := scanTicket(r.db.QueryRowContext(ctx, query, paymentID), ticket)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

func (r *TicketRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE order_id = $1`

	err := scanTicket(r.db.QueryRowContext(ctx, query, orderID), ticket)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

// Settle writes the settlement outcome for one ticket: status, closed
// flag and reward in a single targeted update.
func (r *TicketRepository) Settle(ctx context.Context, id int64, status string, rewardAmount *int64) error {
	query := `
		UPDATE tickets
		SET status = $1, closed = TRUE, reward_amount = $2, updated_at = NOW()
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, rewardAmount, id)
	return err
}

func (r *TicketRepository) UpdatePayment(ctx context.Context, id int64, paymentStatus string, paymentID *string) error {
	query := `
		UPDATE tickets
		SET payment_status = $1, payment_id = COALESCE($2, payment_id), updated_at = NOW()
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, paymentStatus, paymentID, id)
	return err
}

// GetStalePending returns tickets whose online payment never resolved
// within the expiration window.
func (r *TicketRepository) GetStalePending(ctx context.Context, before time.Time) ([]models.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
		FROM tickets
		WHERE payment_status = 'PENDING' AND seller_id IS NULL AND created_at < $1
		ORDER BY created_at ASC`
	return r.queryTickets(ctx, query, before)
}

func (r *TicketRepository) queryTickets(ctx context.Context, query string, args ...interface{}) ([]models.Ticket, error) {
	var tickets []models.Ticket

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}
