package models

import "time"

// CreateMatchRequest - admin request to open a match for sales
type CreateMatchRequest struct {
	HomeTeam     string    `json:"home_team" binding:"required"`
	AwayTeam     string    `json:"away_team" binding:"required"`
	Tournament   string    `json:"tournament" binding:"required"`
	StartsAt     time.Time `json:"starts_at" binding:"required"`
	RewardAmount int64     `json:"reward_amount" binding:"required"`
}

// CreateMatchResponse - response for match creation
type CreateMatchResponse struct {
	ID int64 `json:"id"`
}

// ListMatchesResponseItem - one match in the list response
type ListMatchesResponseItem struct {
	ID         int64     `json:"id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	Tournament string    `json:"tournament"`
	StartsAt   time.Time `json:"starts_at"`
	Status     string    `json:"status"`
}

// ListMatchesResponse - list of matches
type ListMatchesResponse []ListMatchesResponseItem

// MatchDetailResponse - match detail including curva fill state
type MatchDetailResponse struct {
	Match  Match             `json:"match"`
	Curvas []CurvaStatusItem `json:"curvas"`
}

// CurvaStatusItem - fill state of one curva
type CurvaStatusItem struct {
	ID        string `json:"id"`
	Position  int    `json:"position"`
	Status    string `json:"status"`
	Available int    `json:"available"`
	Sold      int    `json:"sold"`
}

// UpdateScoreRequest - staff request to update a running score
type UpdateScoreRequest struct {
	MatchID   int64 `json:"match_id" binding:"required"`
	HomeScore *int  `json:"home_score" binding:"required"`
	AwayScore *int  `json:"away_score" binding:"required"`
}

// StartMatchRequest - staff request to move a match in progress
type StartMatchRequest struct {
	MatchID int64 `json:"match_id" binding:"required"`
}

// EndMatchRequest - staff request to end a match and settle tickets
type EndMatchRequest struct {
	MatchID int64 `json:"match_id" binding:"required"`
}

// EndMatchResponse - settlement outcome summary
type EndMatchResponse struct {
	MatchID   int64  `json:"match_id"`
	Winners   int    `json:"winners"`
	Losers    int    `json:"losers"`
	HouseWins bool   `json:"house_wins"`
	Reason    string `json:"reason,omitempty"`
}

// PurchaseTicketRequest - buy N random slots against a match.
// Buyer fields resolve or create the user record; SellerID marks a
// physical point-of-sale purchase, which is treated as already paid.
type PurchaseTicketRequest struct {
	MatchID        int64  `json:"match_id" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required"`
	BuyerEmail     string `json:"buyer_email" binding:"required"`
	BuyerFirstName string `json:"buyer_first_name"`
	BuyerSurname   string `json:"buyer_surname"`
	PayedAmount    int64  `json:"payed_amount" binding:"required"`
	PreferredCurva string `json:"preferred_curva,omitempty"`
	SellerID       *int64 `json:"seller_id,omitempty"`
}

// PurchaseTicketResponse - created ticket summary
type PurchaseTicketResponse struct {
	ID               int64    `json:"id"`
	TicketNumber     int64    `json:"ticket_number"`
	CurvaID          string   `json:"curva_id"`
	ResultsPurchased []string `json:"results_purchased"`
}

// ListTicketsResponseItem - one ticket in the list response
type ListTicketsResponseItem struct {
	ID               int64    `json:"id"`
	TicketNumber     int64    `json:"ticket_number"`
	MatchID          int64    `json:"match_id"`
	CurvaID          string   `json:"curva_id"`
	ResultsPurchased []string `json:"results_purchased"`
	Status           string   `json:"status"`
	Closed           bool     `json:"closed"`
	RewardAmount     *int64   `json:"reward_amount,omitempty"`
}

// ListTicketsResponse - list of tickets
type ListTicketsResponse []ListTicketsResponseItem

// ChangeTicketStatusRequest - administrative status override.
// Force bypasses the closed-ticket guard.
type ChangeTicketStatusRequest struct {
	TicketID int64  `json:"ticket_id" binding:"required"`
	Status   string `json:"status" binding:"required"`
	Force    bool   `json:"force,omitempty"`
}

// InitiatePaymentRequest - start an online payment for a ticket
type InitiatePaymentRequest struct {
	TicketID int64 `json:"ticket_id" binding:"required"`
}

// ListCurvasResponseItem - one curva partition in the list response
type ListCurvasResponseItem struct {
	ID               string   `json:"id"`
	Position         int      `json:"position"`
	Status           string   `json:"status"`
	AvailableResults []string `json:"available_results"`
	SoldResults      []string `json:"sold_results"`
}

// ListCurvasResponse - curvas of one match
type ListCurvasResponse []ListCurvasResponseItem

// PaymentNotificationPayload - webhook payload from the payment gateway
type PaymentNotificationPayload struct {
	PaymentID string                 `json:"paymentId"`
	Reference string                 `json:"reference"`
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}
