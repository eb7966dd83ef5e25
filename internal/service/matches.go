package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"curvas/internal/curva"
	apperrors "curvas/internal/errors"
	"curvas/internal/logger"
	"curvas/internal/metrics"
	"curvas/internal/models"
)

// MatchService owns the match lifecycle: creation, score keeping and
// the settlement run that classifies every open ticket when the match
// ends.
type MatchService struct {
	matches   MatchStore
	curvas    CurvaStore
	tickets   TicketStore
	houseWins HouseWinsStore
	search    MatchIndexer
	events    Publisher
}

func NewMatchService(matches MatchStore, curvas CurvaStore, tickets TicketStore, houseWins HouseWinsStore, search MatchIndexer, events Publisher) *MatchService {
	return &MatchService{
		matches:   matches,
		curvas:    curvas,
		tickets:   tickets,
		houseWins: houseWins,
		search:    search,
		events:    events,
	}
}

// Create registers a match and opens its first curva so sales can start
// immediately.
func (s *MatchService) Create(ctx context.Context, req *models.CreateMatchRequest) (*models.CreateMatchResponse, error) {
	match := &models.Match{
		HomeTeam:     req.HomeTeam,
		AwayTeam:     req.AwayTeam,
		Tournament:   req.Tournament,
		StartsAt:     req.StartsAt,
		RewardAmount: req.RewardAmount,
		Status:       models.MatchPending,
	}

	if err := s.matches.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	if _, err := s.curvas.Open(ctx, match.ID); err != nil {
		return nil, fmt.Errorf("failed to open initial curva for match %d: %w", match.ID, err)
	}
	metrics.CurvasOpened.Inc()

	if s.search != nil {
		if err := s.search.Index(ctx, match); err != nil {
			logger.Get().Warn("failed to index match", "match_id", match.ID, "error", err)
		}
	}

	return &models.CreateMatchResponse{ID: match.ID}, nil
}

// List returns matches from Elasticsearch when available, falling back
// to Postgres when the cluster is down or not configured. The fallback
// ignores query and date filtering.
func (s *MatchService) List(ctx context.Context, query, date string, page, pageSize int) (models.ListMatchesResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var matchList []models.Match
	var err error

	if s.search != nil {
		matchList, err = s.search.Search(ctx, query, date, page, pageSize)
		if err != nil {
			logger.Get().Warn("match search failed, falling back to database", "error", err)
			matchList = nil
		}
	}
	if matchList == nil {
		matchList, err = s.matches.List(ctx, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list matches: %w", err)
		}
	}

	response := make(models.ListMatchesResponse, 0, len(matchList))
	for _, m := range matchList {
		response = append(response, models.ListMatchesResponseItem{
			ID:         m.ID,
			HomeTeam:   m.HomeTeam,
			AwayTeam:   m.AwayTeam,
			Tournament: m.Tournament,
			StartsAt:   m.StartsAt,
			Status:     m.Status,
		})
	}
	return response, nil
}

// Detail returns one match together with the fill state of its curvas.
func (s *MatchService) Detail(ctx context.Context, matchID int64) (*models.MatchDetailResponse, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, apperrors.ErrMatchNotFound
	}

	curvaList, err := s.curvas.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get curvas for match %d: %w", matchID, err)
	}

	items := make([]models.CurvaStatusItem, 0, len(curvaList))
	for _, c := range curvaList {
		items = append(items, models.CurvaStatusItem{
			ID:        c.ID,
			Position:  c.Position,
			Status:    c.Status,
			Available: len(c.AvailableResults),
			Sold:      len(c.SoldResults),
		})
	}

	return &models.MatchDetailResponse{Match: *match, Curvas: items}, nil
}

// Start moves a pending match in progress.
func (s *MatchService) Start(ctx context.Context, matchID int64) error {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return apperrors.ErrMatchNotFound
	}
	if match.Status != models.MatchPending {
		return apperrors.ErrMatchNotPending
	}

	if err := s.matches.UpdateStatus(ctx, matchID, models.MatchInProgress); err != nil {
		return fmt.Errorf("failed to start match %d: %w", matchID, err)
	}

	s.publish(models.EventMatchStarted, models.MatchStartedEvent{
		MatchID:   matchID,
		Timestamp: time.Now(),
	})
	return nil
}

// UpdateScore records the running score of a match that has not
// finished yet.
func (s *MatchService) UpdateScore(ctx context.Context, matchID int64, homeScore, awayScore int) error {
	if homeScore < 0 || awayScore < 0 {
		return apperrors.ErrInvalidScore
	}

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return apperrors.ErrMatchNotFound
	}
	if match.Status == models.MatchFinished {
		return apperrors.ErrMatchFinished
	}

	if err := s.matches.UpdateScore(ctx, matchID, homeScore, awayScore); err != nil {
		return fmt.Errorf("failed to update score for match %d: %w", matchID, err)
	}
	return nil
}

// End runs settlement against the final recorded score: every open
// ticket is classified won or lost and closed, house-wins conditions
// are recorded, and the match moves to finished. Ending an already
// finished match is rejected, which makes the run effectively
// idempotent at the API surface.
func (s *MatchService) End(ctx context.Context, matchID int64) (*models.EndMatchResponse, error) {
	timer := prometheus.NewTimer(metrics.SettlementDuration)
	defer timer.ObserveDuration()

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, apperrors.ErrMatchNotFound
	}
	if match.Status == models.MatchFinished {
		return nil, apperrors.ErrMatchAlreadyFinished
	}

	// Stop sales before touching tickets so settlement never races a
	// purchase on the same curvas.
	if err := s.curvas.CloseAllForMatch(ctx, matchID); err != nil {
		return nil, fmt.Errorf("failed to close curvas for match %d: %w", matchID, err)
	}

	allTickets, err := s.tickets.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets for match %d: %w", matchID, err)
	}

	response := &models.EndMatchResponse{MatchID: matchID}

	if curva.OutOfRange(match.HomeScore, match.AwayScore) {
		s.recordHouseWins(ctx, match, models.HouseWinsHighScore, allTickets)
		response.HouseWins = true
		response.Reason = models.HouseWinsHighScore
	}

	for _, t := range allTickets {
		if t.Closed {
			continue
		}
		if curva.Wins(t.ResultsPurchased, match.HomeScore, match.AwayScore) {
			reward := match.RewardAmount
			if err := s.tickets.Settle(ctx, t.ID, models.TicketWon, &reward); err != nil {
				return nil, fmt.Errorf("settlement aborted at ticket %d: %w", t.ID, err)
			}
			response.Winners++
			s.publishSettled(t, models.TicketWon, &reward)
		} else {
			if err := s.tickets.Settle(ctx, t.ID, models.TicketLost, nil); err != nil {
				return nil, fmt.Errorf("settlement aborted at ticket %d: %w", t.ID, err)
			}
			response.Losers++
			s.publishSettled(t, models.TicketLost, nil)
		}
	}

	if response.Winners == 0 && response.Losers == 0 {
		s.recordHouseWins(ctx, match, models.HouseWinsNoWinners, allTickets)
		response.HouseWins = true
		if response.Reason == "" {
			response.Reason = models.HouseWinsNoWinners
		}
	}

	if err := s.matches.UpdateStatus(ctx, matchID, models.MatchFinished); err != nil {
		return nil, fmt.Errorf("failed to finish match %d: %w", matchID, err)
	}

	s.publish(models.EventMatchFinished, models.MatchFinishedEvent{
		MatchID:   matchID,
		HomeScore: match.HomeScore,
		AwayScore: match.AwayScore,
		Winners:   response.Winners,
		Losers:    response.Losers,
		Timestamp: time.Now(),
	})

	return response, nil
}

// Curvas returns the raw partitions of a match, including the full
// available and sold slot sets.
func (s *MatchService) Curvas(ctx context.Context, matchID int64) (models.ListCurvasResponse, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if match == nil {
		return nil, apperrors.ErrMatchNotFound
	}

	curvaList, err := s.curvas.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get curvas for match %d: %w", matchID, err)
	}

	response := make(models.ListCurvasResponse, 0, len(curvaList))
	for _, c := range curvaList {
		response = append(response, models.ListCurvasResponseItem{
			ID:               c.ID,
			Position:         c.Position,
			Status:           c.Status,
			AvailableResults: c.AvailableResults,
			SoldResults:      c.SoldResults,
		})
	}
	return response, nil
}

// recordHouseWins writes the audit row best-effort: a failure here must
// not abort settlement, the tickets are still classified correctly.
func (s *MatchService) recordHouseWins(ctx context.Context, match *models.Match, reason string, tickets []models.Ticket) {
	record := &models.HouseWinsHistory{
		MatchID:      match.ID,
		Reason:       reason,
		TicketsCount: len(tickets),
	}
	if reason == models.HouseWinsHighScore {
		home, away := match.HomeScore, match.AwayScore
		record.HomeScore = &home
		record.AwayScore = &away
	}
	for _, t := range tickets {
		record.TotalAmount += t.PayedAmount
	}

	if err := s.houseWins.Create(ctx, record); err != nil {
		logger.Get().Error("failed to record house wins",
			"match_id", match.ID, "reason", reason, "error", err)
		return
	}
	metrics.HouseWins.WithLabelValues(reason).Inc()

	s.publish(models.EventHouseWinsRecorded, models.HouseWinsRecordedEvent{
		MatchID:      match.ID,
		Reason:       reason,
		TicketsCount: record.TicketsCount,
		TotalAmount:  record.TotalAmount,
		Timestamp:    time.Now(),
	})
}

func (s *MatchService) publishSettled(t models.Ticket, status string, reward *int64) {
	s.publish(models.EventTicketSettled, models.TicketSettledEvent{
		TicketID:     t.ID,
		TicketNumber: t.TicketNumber,
		MatchID:      t.MatchID,
		UserID:       t.UserID,
		Status:       status,
		RewardAmount: reward,
		Timestamp:    time.Now(),
	})
}

func (s *MatchService) publish(subject string, event interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(subject, event); err != nil {
		logger.Get().Warn("failed to publish event", "subject", subject, "error", err)
	}
}
