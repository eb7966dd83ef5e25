package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"curvas/internal/models"
	"curvas/internal/service"
)

// emptyMatchStore returns nothing for every lookup so handlers can be
// exercised down to the not-found mapping without a database.
type emptyMatchStore struct{}

func (emptyMatchStore) Create(context.Context, *models.Match) error { return nil }
func (emptyMatchStore) GetByID(context.Context, int64) (*models.Match, error) {
	return nil, nil
}
func (emptyMatchStore) List(context.Context, int, int) ([]models.Match, error) {
	return []models.Match{}, nil
}
func (emptyMatchStore) UpdateStatus(context.Context, int64, string) error  { return nil }
func (emptyMatchStore) UpdateScore(context.Context, int64, int, int) error { return nil }

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	matchService := service.NewMatchService(emptyMatchStore{}, nil, nil, nil, nil, nil)
	ticketService := service.NewTicketService(nil, emptyMatchStore{}, nil, nil, nil, nil)
	h := NewHandlers(&service.Services{Matches: matchService, Tickets: ticketService}, nil)

	router := gin.New()
	router.POST("/api/matches", h.CreateMatch)
	router.GET("/api/matches/:id", h.GetMatch)
	router.PATCH("/api/matches/score", h.UpdateScore)
	router.POST("/api/tickets", h.PurchaseTicket)
	router.GET("/api/tickets", h.ListTickets)
	router.GET("/api/curvas", h.ListCurvas)
	router.GET("/api/payments/success", h.NotifyPaymentCompleted)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateMatchRejectsMissingFields(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, "POST", "/api/matches", `{"home_team":"Junior"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMatchRejectsBadID(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, "GET", "/api/matches/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMatchNotFound(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, "GET", "/api/matches/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateScoreRequiresScores(t *testing.T) {
	router := testRouter(t)

	// Zero is a valid score, so both fields are pointers and must be
	// present explicitly.
	w := doRequest(router, "PATCH", "/api/matches/score", `{"match_id":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchaseTicketRejectsMalformedBody(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, "POST", "/api/tickets", `{"match_id":"not-a-number"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchaseTicketUnknownMatch(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, "POST", "/api/tickets",
		`{"match_id":42,"quantity":1,"buyer_email":"a@b.co","payed_amount":100}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTicketsRejectsBadMatchID(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, "GET", "/api/tickets?match_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCurvasRequiresMatchID(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, "GET", "/api/curvas", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentSuccessRequiresOrderID(t *testing.T) {
	router := testRouter(t)

	w := doRequest(router, "GET", "/api/payments/success", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
