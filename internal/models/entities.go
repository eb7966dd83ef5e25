package models

import (
	"time"
)

// Match statuses
const (
	MatchPending    = "PENDING"
	MatchInProgress = "IN_PROGRESS"
	MatchFinished   = "FINISHED"
)

// Curva statuses
const (
	CurvaOpen    = "OPEN"
	CurvaClosed  = "CLOSED"
	CurvaSoldOut = "SOLD_OUT"
)

// Ticket statuses
const (
	TicketPending = "PENDING"
	TicketWon     = "WON"
	TicketLost    = "LOST"
)

// Ticket payment statuses
const (
	PaymentPending  = "PENDING"
	PaymentApproved = "APPROVED"
	PaymentDeclined = "DECLINED"
)

// House-wins reasons
const (
	HouseWinsHighScore = "high_score"
	HouseWinsNoWinners = "no_winners"
)

// User represents a buyer or seller account
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	LastLoggedIn time.Time `json:"last_logged_in" db:"last_logged_in"`
}

// Match represents a soccer match tickets are sold against
type Match struct {
	ID           int64     `json:"id" db:"id"`
	HomeTeam     string    `json:"home_team" db:"home_team"`
	AwayTeam     string    `json:"away_team" db:"away_team"`
	Tournament   string    `json:"tournament" db:"tournament"`
	StartsAt     time.Time `json:"starts_at" db:"starts_at"`
	RewardAmount int64     `json:"reward_amount" db:"reward_amount"`
	HomeScore    int       `json:"home_score" db:"home_score"`
	AwayScore    int       `json:"away_score" db:"away_score"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Curva is a bounded pool of 64 score slots owned by one match.
// AvailableResults and SoldResults partition the pool: a slot sits in
// exactly one of the two sets at any time.
type Curva struct {
	ID               string    `json:"id" db:"id"`
	MatchID          int64     `json:"match_id" db:"match_id"`
	Position         int       `json:"position" db:"position"`
	AvailableResults []string  `json:"available_results" db:"available_results"`
	SoldResults      []string  `json:"sold_results" db:"sold_results"`
	Status           string    `json:"status" db:"status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Ticket represents a purchase of one or more slots against a match.
// CurvaID references only the first curva the allocation touched, even
// when slots span several curvas; ResultsPurchased is always complete.
type Ticket struct {
	ID               int64     `json:"id" db:"id"`
	TicketNumber     int64     `json:"ticket_number" db:"ticket_number"`
	MatchID          int64     `json:"match_id" db:"match_id"`
	UserID           int64     `json:"user_id" db:"user_id"`
	CurvaID          string    `json:"curva_id" db:"curva_id"`
	ResultsPurchased []string  `json:"results_purchased" db:"results_purchased"`
	PayedAmount      int64     `json:"payed_amount" db:"payed_amount"`
	Status           string    `json:"status" db:"status"`
	Closed           bool      `json:"closed" db:"closed"`
	RewardAmount     *int64    `json:"reward_amount" db:"reward_amount"`
	SellerID         *int64    `json:"seller_id" db:"seller_id"`
	PaymentStatus    string    `json:"payment_status" db:"payment_status"`
	PaymentID        *string   `json:"payment_id" db:"payment_id"`
	OrderID          *string   `json:"order_id" db:"order_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// HouseWinsHistory is an append-only audit record written when
// settlement decides the house keeps all proceeds for a match.
type HouseWinsHistory struct {
	ID           int64     `json:"id" db:"id"`
	MatchID      int64     `json:"match_id" db:"match_id"`
	Reason       string    `json:"reason" db:"reason"`
	HomeScore    *int      `json:"home_score" db:"home_score"`
	AwayScore    *int      `json:"away_score" db:"away_score"`
	TicketsCount int       `json:"tickets_count" db:"tickets_count"`
	TotalAmount  int64     `json:"total_amount" db:"total_amount"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
