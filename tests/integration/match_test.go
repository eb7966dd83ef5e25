package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"curvas/internal/models"
)

func newMatchRequest() models.CreateMatchRequest {
	return models.CreateMatchRequest{
		HomeTeam:     "Junior",
		AwayTeam:     "Nacional",
		Tournament:   fmt.Sprintf("Integration Cup %d", time.Now().UnixNano()),
		StartsAt:     time.Now().Add(24 * time.Hour),
		RewardAmount: 500000,
	}
}

func TestMatchLifecycle(t *testing.T) {
	client := NewTestClient(t)

	matchID := client.CreateMatch(t, newMatchRequest())

	detail := client.GetMatch(t, matchID)
	if detail.Match.Status != models.MatchPending {
		t.Fatalf("Expected new match to be PENDING, got %s", detail.Match.Status)
	}
	if len(detail.Curvas) != 1 {
		t.Fatalf("Expected one initial curva, got %d", len(detail.Curvas))
	}
	if detail.Curvas[0].Available != 64 {
		t.Fatalf("Expected 64 available slots, got %d", detail.Curvas[0].Available)
	}

	client.StartMatch(t, matchID)
	client.UpdateScore(t, matchID, 2, 1)

	detail = client.GetMatch(t, matchID)
	if detail.Match.Status != models.MatchInProgress {
		t.Fatalf("Expected match IN_PROGRESS, got %s", detail.Match.Status)
	}
	if detail.Match.HomeScore != 2 || detail.Match.AwayScore != 1 {
		t.Fatalf("Expected score 2-1, got %d-%d", detail.Match.HomeScore, detail.Match.AwayScore)
	}

	endResp := client.EndMatch(t, matchID)
	if endResp.MatchID != matchID {
		t.Fatalf("Expected settlement for match %d, got %d", matchID, endResp.MatchID)
	}

	// A second end must be rejected, the ledger is already closed.
	client.EndMatchExpectStatus(t, matchID, http.StatusConflict)

	detail = client.GetMatch(t, matchID)
	if detail.Match.Status != models.MatchFinished {
		t.Fatalf("Expected match FINISHED, got %s", detail.Match.Status)
	}
	for _, c := range detail.Curvas {
		if c.Status != models.CurvaClosed {
			t.Fatalf("Expected curva %s to be CLOSED, got %s", c.ID, c.Status)
		}
	}
}

func TestEndMatchWithHighScore(t *testing.T) {
	client := NewTestClient(t)

	matchID := client.CreateMatch(t, newMatchRequest())
	client.PurchaseTicket(t, models.PurchaseTicketRequest{
		MatchID:     matchID,
		Quantity:    2,
		BuyerEmail:  fmt.Sprintf("highscore-%d@example.com", time.Now().UnixNano()),
		PayedAmount: 10000,
	})

	client.StartMatch(t, matchID)
	client.UpdateScore(t, matchID, 8, 0)

	endResp := client.EndMatch(t, matchID)
	if !endResp.HouseWins {
		t.Fatal("Expected house wins for an out-of-range score")
	}
	if endResp.Reason != models.HouseWinsHighScore {
		t.Fatalf("Expected reason %q, got %q", models.HouseWinsHighScore, endResp.Reason)
	}
	if endResp.Winners != 0 {
		t.Fatalf("Expected no winners, got %d", endResp.Winners)
	}
}
