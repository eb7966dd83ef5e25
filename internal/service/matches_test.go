package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "curvas/internal/errors"
	"curvas/internal/models"
)

func newMatchFixture(t *testing.T) (*MatchService, *fakeMatchStore, *fakeCurvaStore, *fakeTicketStore, *fakeHouseWinsStore, *fakePublisher) {
	t.Helper()
	matches := newFakeMatchStore()
	curvas := newFakeCurvaStore()
	tickets := newFakeTicketStore()
	houseWins := &fakeHouseWinsStore{}
	events := &fakePublisher{}
	svc := NewMatchService(matches, curvas, tickets, houseWins, nil, events)
	return svc, matches, curvas, tickets, houseWins, events
}

func seedMatch(t *testing.T, svc *MatchService, matches *fakeMatchStore, status string, homeScore, awayScore int) int64 {
	t.Helper()
	resp, err := svc.Create(context.Background(), &models.CreateMatchRequest{
		HomeTeam:     "Junior",
		AwayTeam:     "Nacional",
		Tournament:   "Liga",
		RewardAmount: 500000,
	})
	require.NoError(t, err)
	m := matches.matches[resp.ID]
	m.Status = status
	m.HomeScore = homeScore
	m.AwayScore = awayScore
	return resp.ID
}

func TestCreateMatchOpensInitialCurva(t *testing.T) {
	svc, _, curvas, _, _, _ := newMatchFixture(t)

	resp, err := svc.Create(context.Background(), &models.CreateMatchRequest{
		HomeTeam:     "Junior",
		AwayTeam:     "Nacional",
		Tournament:   "Liga",
		RewardAmount: 500000,
	})
	require.NoError(t, err)
	require.NotZero(t, resp.ID)

	curvaList, err := curvas.GetByMatchID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Len(t, curvaList, 1)
	assert.Equal(t, models.CurvaOpen, curvaList[0].Status)
	assert.Len(t, curvaList[0].AvailableResults, 64)
	assert.Empty(t, curvaList[0].SoldResults)
}

func TestStartMatch(t *testing.T) {
	svc, matches, _, _, _, events := newMatchFixture(t)
	matchID := seedMatch(t, svc, matches, models.MatchPending, 0, 0)

	require.NoError(t, svc.Start(context.Background(), matchID))
	assert.Equal(t, models.MatchInProgress, matches.matches[matchID].Status)
	assert.Contains(t, events.subjects(), models.EventMatchStarted)

	err := svc.Start(context.Background(), matchID)
	assert.ErrorIs(t, err, apperrors.ErrMatchNotPending)
}

func TestStartMatchNotFound(t *testing.T) {
	svc, _, _, _, _, _ := newMatchFixture(t)
	err := svc.Start(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrMatchNotFound)
}

func TestUpdateScoreValidation(t *testing.T) {
	svc, matches, _, _, _, _ := newMatchFixture(t)
	matchID := seedMatch(t, svc, matches, models.MatchInProgress, 0, 0)

	err := svc.UpdateScore(context.Background(), matchID, -1, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidScore)

	require.NoError(t, svc.UpdateScore(context.Background(), matchID, 2, 1))
	assert.Equal(t, 2, matches.matches[matchID].HomeScore)
	assert.Equal(t, 1, matches.matches[matchID].AwayScore)

	matches.matches[matchID].Status = models.MatchFinished
	err = svc.UpdateScore(context.Background(), matchID, 3, 1)
	assert.ErrorIs(t, err, apperrors.ErrMatchFinished)
}

func TestEndMatchClassifiesTickets(t *testing.T) {
	svc, matches, curvas, tickets, houseWins, events := newMatchFixture(t)
	matchID := seedMatch(t, svc, matches, models.MatchInProgress, 3, 5)

	winner := &models.Ticket{MatchID: matchID, UserID: 1, ResultsPurchased: []string{"0.0", "3.5"}, PayedAmount: 10000, Status: models.TicketPending}
	loser := &models.Ticket{MatchID: matchID, UserID: 2, ResultsPurchased: []string{"5.3", "1.1"}, PayedAmount: 10000, Status: models.TicketPending}
	require.NoError(t, tickets.Create(context.Background(), winner))
	require.NoError(t, tickets.Create(context.Background(), loser))

	resp, err := svc.End(context.Background(), matchID)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Winners)
	assert.Equal(t, 1, resp.Losers)
	assert.False(t, resp.HouseWins)
	assert.Empty(t, houseWins.records)

	settled, err := tickets.GetByID(context.Background(), winner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketWon, settled.Status)
	assert.True(t, settled.Closed)
	require.NotNil(t, settled.RewardAmount)
	assert.Equal(t, int64(500000), *settled.RewardAmount)

	settled, err = tickets.GetByID(context.Background(), loser.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketLost, settled.Status)
	assert.True(t, settled.Closed)
	assert.Nil(t, settled.RewardAmount)

	assert.Equal(t, models.MatchFinished, matches.matches[matchID].Status)
	curvaList, _ := curvas.GetByMatchID(context.Background(), matchID)
	for _, c := range curvaList {
		assert.Equal(t, models.CurvaClosed, c.Status)
	}
	assert.Contains(t, events.subjects(), models.EventMatchFinished)
	assert.Contains(t, events.subjects(), models.EventTicketSettled)
}

func TestEndMatchHighScoreHouseWins(t *testing.T) {
	svc, matches, _, tickets, houseWins, _ := newMatchFixture(t)
	matchID := seedMatch(t, svc, matches, models.MatchInProgress, 8, 0)

	open := &models.Ticket{MatchID: matchID, UserID: 1, ResultsPurchased: []string{"7.7"}, PayedAmount: 10000, Status: models.TicketPending}
	closed := &models.Ticket{MatchID: matchID, UserID: 2, ResultsPurchased: []string{"0.0"}, PayedAmount: 20000, Status: models.TicketLost, Closed: true}
	require.NoError(t, tickets.Create(context.Background(), open))
	require.NoError(t, tickets.Create(context.Background(), closed))

	resp, err := svc.End(context.Background(), matchID)
	require.NoError(t, err)

	assert.True(t, resp.HouseWins)
	assert.Equal(t, models.HouseWinsHighScore, resp.Reason)
	assert.Equal(t, 0, resp.Winners)
	assert.Equal(t, 1, resp.Losers)

	require.Len(t, houseWins.records, 1)
	record := houseWins.records[0]
	assert.Equal(t, models.HouseWinsHighScore, record.Reason)
	require.NotNil(t, record.HomeScore)
	assert.Equal(t, 8, *record.HomeScore)
	assert.Equal(t, 2, record.TicketsCount)
	assert.Equal(t, int64(30000), record.TotalAmount)

	settled, err := tickets.GetByID(context.Background(), open.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketLost, settled.Status)
	assert.True(t, settled.Closed)
}

func TestEndMatchNoWinnersHouseWins(t *testing.T) {
	svc, matches, _, tickets, houseWins, _ := newMatchFixture(t)
	matchID := seedMatch(t, svc, matches, models.MatchInProgress, 2, 2)

	// The only ticket is already closed, so settlement finds nothing
	// to classify.
	closed := &models.Ticket{MatchID: matchID, UserID: 1, ResultsPurchased: []string{"2.2"}, PayedAmount: 15000, Status: models.TicketWon, Closed: true}
	require.NoError(t, tickets.Create(context.Background(), closed))

	resp, err := svc.End(context.Background(), matchID)
	require.NoError(t, err)

	assert.True(t, resp.HouseWins)
	assert.Equal(t, models.HouseWinsNoWinners, resp.Reason)

	require.Len(t, houseWins.records, 1)
	record := houseWins.records[0]
	assert.Equal(t, models.HouseWinsNoWinners, record.Reason)
	assert.Nil(t, record.HomeScore)
	assert.Nil(t, record.AwayScore)
	assert.Equal(t, 1, record.TicketsCount)
	assert.Equal(t, int64(15000), record.TotalAmount)
}

func TestEndMatchNoTicketsSold(t *testing.T) {
	svc, matches, _, tickets, houseWins, _ := newMatchFixture(t)
	matchID := seedMatch(t, svc, matches, models.MatchInProgress, 1, 1)

	resp, err := svc.End(context.Background(), matchID)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Winners)
	assert.Equal(t, 0, resp.Losers)
	assert.True(t, resp.HouseWins)
	assert.Equal(t, models.HouseWinsNoWinners, resp.Reason)

	require.Len(t, houseWins.records, 1)
	record := houseWins.records[0]
	assert.Equal(t, models.HouseWinsNoWinners, record.Reason)
	assert.Equal(t, 0, record.TicketsCount)
	assert.Equal(t, int64(0), record.TotalAmount)

	stored, err := tickets.GetByMatchID(context.Background(), matchID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestEndMatchAlreadyFinished(t *testing.T) {
	svc, matches, _, _, _, _ := newMatchFixture(t)
	matchID := seedMatch(t, svc, matches, models.MatchFinished, 1, 0)

	_, err := svc.End(context.Background(), matchID)
	assert.ErrorIs(t, err, apperrors.ErrMatchAlreadyFinished)
}

func TestEndMatchHouseWinsWriteFailureDoesNotAbort(t *testing.T) {
	svc, matches, _, tickets, houseWins, _ := newMatchFixture(t)
	houseWins.failErr = assert.AnError
	matchID := seedMatch(t, svc, matches, models.MatchInProgress, 9, 9)

	open := &models.Ticket{MatchID: matchID, UserID: 1, ResultsPurchased: []string{"1.1"}, PayedAmount: 10000, Status: models.TicketPending}
	require.NoError(t, tickets.Create(context.Background(), open))

	resp, err := svc.End(context.Background(), matchID)
	require.NoError(t, err)

	assert.True(t, resp.HouseWins)
	assert.Empty(t, houseWins.records)
	assert.Equal(t, models.MatchFinished, matches.matches[matchID].Status)

	settled, err := tickets.GetByID(context.Background(), open.ID)
	require.NoError(t, err)
	assert.True(t, settled.Closed)
}

func TestMatchDetailReportsFillState(t *testing.T) {
	svc, matches, curvas, _, _, _ := newMatchFixture(t)
	matchID := seedMatch(t, svc, matches, models.MatchPending, 0, 0)

	_, drawn, err := curvas.TakeSlots(context.Background(), matchID, 10, "")
	require.NoError(t, err)
	require.Len(t, drawn, 10)

	detail, err := svc.Detail(context.Background(), matchID)
	require.NoError(t, err)
	require.Len(t, detail.Curvas, 1)
	assert.Equal(t, 54, detail.Curvas[0].Available)
	assert.Equal(t, 10, detail.Curvas[0].Sold)
}

func TestMatchDetailNotFound(t *testing.T) {
	svc, _, _, _, _, _ := newMatchFixture(t)
	_, err := svc.Detail(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrMatchNotFound)
}
