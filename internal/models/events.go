package models

import "time"

// NATS Event Types
const (
	EventTicketCreated     = "ticket.created"
	EventTicketSettled     = "ticket.settled"
	EventMatchStarted      = "match.started"
	EventMatchFinished     = "match.finished"
	EventHouseWinsRecorded = "housewins.recorded"
	EventPaymentInitiated  = "payment.initiated"
	EventPaymentResolved   = "payment.resolved"
)

// TicketCreatedEvent is published after a ticket purchase commits
type TicketCreatedEvent struct {
	TicketID     int64     `json:"ticket_id"`
	TicketNumber int64     `json:"ticket_number"`
	MatchID      int64     `json:"match_id"`
	UserID       int64     `json:"user_id"`
	Slots        []string  `json:"slots"`
	Timestamp    time.Time `json:"timestamp"`
}

// TicketSettledEvent is published per ticket during settlement
type TicketSettledEvent struct {
	TicketID     int64     `json:"ticket_id"`
	TicketNumber int64     `json:"ticket_number"`
	MatchID      int64     `json:"match_id"`
	UserID       int64     `json:"user_id"`
	Status       string    `json:"status"`
	RewardAmount *int64    `json:"reward_amount,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// MatchStartedEvent is published when a match moves in progress
type MatchStartedEvent struct {
	MatchID   int64     `json:"match_id"`
	Timestamp time.Time `json:"timestamp"`
}

// MatchFinishedEvent is published after settlement completes
type MatchFinishedEvent struct {
	MatchID   int64     `json:"match_id"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Winners   int       `json:"winners"`
	Losers    int       `json:"losers"`
	Timestamp time.Time `json:"timestamp"`
}

// HouseWinsRecordedEvent is published when a house-wins audit row is written
type HouseWinsRecordedEvent struct {
	MatchID      int64     `json:"match_id"`
	Reason       string    `json:"reason"`
	TicketsCount int       `json:"tickets_count"`
	TotalAmount  int64     `json:"total_amount"`
	Timestamp    time.Time `json:"timestamp"`
}

// PaymentInitiatedEvent is published when an online payment starts
type PaymentInitiatedEvent struct {
	TicketID  int64     `json:"ticket_id"`
	PaymentID string    `json:"payment_id"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentResolvedEvent is published when the gateway reports a final state
type PaymentResolvedEvent struct {
	TicketID  int64     `json:"ticket_id"`
	PaymentID string    `json:"payment_id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
