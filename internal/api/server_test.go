package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"curvas/internal/repository"
	"curvas/internal/service"
)

func newRoutedServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		router: gin.New(),
		services: &service.Services{
			Matches: service.NewMatchService(nil, nil, nil, nil, nil, nil),
			Tickets: service.NewTicketService(nil, nil, nil, nil, nil, nil),
		},
		repos: &repository.Repositories{},
	}
	s.setupRoutes()
	return s
}

// Gateway callbacks must stay reachable without operator credentials
// while the rest of the API demands Basic Auth.
func TestPaymentRoutesBypassBasicAuth(t *testing.T) {
	s := newRoutedServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest("GET", "/api/payments/success", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing orderId should reach the handler, not Basic Auth")

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest("GET", "/api/payments/fail", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/payments/notifications", strings.NewReader("not-json"))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperatorRoutesRequireBasicAuth(t *testing.T) {
	s := newRoutedServer(t)

	for _, path := range []string{"/api/matches", "/api/tickets", "/api/curvas"} {
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "expected %s to demand credentials", path)
	}
}
