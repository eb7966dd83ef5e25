package service

import (
	"context"

	"curvas/internal/external"
	"curvas/internal/messaging"
	"curvas/internal/models"
	"curvas/internal/repository"
)

// Store interfaces are satisfied by the repository types. Services
// depend on these instead of the concrete repositories so the
// allocation and settlement invariants can be exercised in tests
// without Postgres.

type MatchStore interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int64) (*models.Match, error)
	List(ctx context.Context, page, pageSize int) ([]models.Match, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdateScore(ctx context.Context, id int64, homeScore, awayScore int) error
}

type CurvaStore interface {
	Open(ctx context.Context, matchID int64) (*models.Curva, error)
	GetByID(ctx context.Context, id string) (*models.Curva, error)
	GetByMatchID(ctx context.Context, matchID int64) ([]models.Curva, error)
	TakeSlots(ctx context.Context, matchID int64, quantity int, preferredID string) (string, []string, error)
	CloseAllForMatch(ctx context.Context, matchID int64) error
}

type TicketStore interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, id int64) (*models.Ticket, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Ticket, error)
	GetByMatchID(ctx context.Context, matchID int64) ([]models.Ticket, error)
	GetByCurvaID(ctx context.Context, curvaID string) ([]models.Ticket, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Ticket, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Ticket, error)
	Settle(ctx context.Context, id int64, status string, rewardAmount *int64) error
	UpdatePayment(ctx context.Context, id int64, paymentStatus string, paymentID *string) error
}

type HouseWinsStore interface {
	Create(ctx context.Context, record *models.HouseWinsHistory) error
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// MatchIndexer is the Elasticsearch-backed search surface; may be nil
// when the cluster is unavailable, in which case listing falls back to
// Postgres.
type MatchIndexer interface {
	Search(ctx context.Context, query, date string, page, pageSize int) ([]models.Match, error)
	Index(ctx context.Context, match *models.Match) error
}

// Publisher is the event bus surface used for fire-and-forget
// notifications.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

type Services struct {
	Matches *MatchService
	Tickets *TicketService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, paymentClient *external.PaymentClient) *Services {
	var indexer MatchIndexer
	if repos.Search != nil {
		indexer = repos.Search
	}

	var publisher Publisher
	if natsClient != nil {
		publisher = natsClient
	}

	var gateway PaymentGateway
	if paymentClient != nil {
		gateway = paymentClient
	}

	matchService := NewMatchService(repos.Matches, repos.Curvas, repos.Tickets, repos.HouseWins, indexer, publisher)
	ticketService := NewTicketService(repos.Tickets, repos.Matches, repos.Curvas, repos.Users, gateway, publisher)

	return &Services{
		Matches: matchService,
		Tickets: ticketService,
	}
}
