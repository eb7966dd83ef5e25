package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"curvas/internal/models"
)

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func TestPurchaseAllocatesUniqueSlots(t *testing.T) {
	client := NewTestClient(t)

	matchID := client.CreateMatch(t, newMatchRequest())

	purchase := client.PurchaseTicket(t, models.PurchaseTicketRequest{
		MatchID:     matchID,
		Quantity:    5,
		BuyerEmail:  uniqueEmail("buyer"),
		PayedAmount: 10000,
	})

	if len(purchase.ResultsPurchased) != 5 {
		t.Fatalf("Expected 5 slots, got %d", len(purchase.ResultsPurchased))
	}
	seen := make(map[string]bool)
	for _, slot := range purchase.ResultsPurchased {
		if seen[slot] {
			t.Fatalf("Slot %s allocated twice in one ticket", slot)
		}
		seen[slot] = true
	}

	detail := client.GetMatch(t, matchID)
	if detail.Curvas[0].Available != 59 || detail.Curvas[0].Sold != 5 {
		t.Fatalf("Expected 59 available / 5 sold, got %d/%d",
			detail.Curvas[0].Available, detail.Curvas[0].Sold)
	}
}

func TestPurchaseSpillsIntoNewCurva(t *testing.T) {
	client := NewTestClient(t)

	matchID := client.CreateMatch(t, newMatchRequest())

	// Fill the first curva completely, then buy more.
	client.PurchaseTicket(t, models.PurchaseTicketRequest{
		MatchID:     matchID,
		Quantity:    64,
		BuyerEmail:  uniqueEmail("whale"),
		PayedAmount: 640000,
	})
	purchase := client.PurchaseTicket(t, models.PurchaseTicketRequest{
		MatchID:     matchID,
		Quantity:    3,
		BuyerEmail:  uniqueEmail("late"),
		PayedAmount: 30000,
	})

	if len(purchase.ResultsPurchased) != 3 {
		t.Fatalf("Expected 3 slots, got %d", len(purchase.ResultsPurchased))
	}

	curvas := client.ListCurvas(t, matchID)
	if len(curvas) != 2 {
		t.Fatalf("Expected a second curva to be opened, got %d curvas", len(curvas))
	}
	for _, c := range curvas {
		if len(c.AvailableResults)+len(c.SoldResults) != 64 {
			t.Fatalf("Curva %s holds %d slots, expected 64",
				c.ID, len(c.AvailableResults)+len(c.SoldResults))
		}
	}
}

func TestChangeTicketStatusLedger(t *testing.T) {
	client := NewTestClient(t)

	matchID := client.CreateMatch(t, newMatchRequest())
	purchase := client.PurchaseTicket(t, models.PurchaseTicketRequest{
		MatchID:     matchID,
		Quantity:    1,
		BuyerEmail:  uniqueEmail("ledger"),
		PayedAmount: 10000,
	})

	// First override closes the ticket.
	client.ChangeTicketStatus(t, models.ChangeTicketStatusRequest{
		TicketID: purchase.ID,
		Status:   models.TicketLost,
	}, http.StatusOK)

	// Same status again is a no-op, not an error.
	client.ChangeTicketStatus(t, models.ChangeTicketStatusRequest{
		TicketID: purchase.ID,
		Status:   models.TicketLost,
	}, http.StatusOK)

	// A different status on the closed ticket needs force.
	client.ChangeTicketStatus(t, models.ChangeTicketStatusRequest{
		TicketID: purchase.ID,
		Status:   models.TicketWon,
	}, http.StatusConflict)

	client.ChangeTicketStatus(t, models.ChangeTicketStatusRequest{
		TicketID: purchase.ID,
		Status:   models.TicketWon,
		Force:    true,
	}, http.StatusOK)
}
