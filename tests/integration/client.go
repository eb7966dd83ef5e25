package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"curvas/internal/models"
)

// TestClient provides methods for testing a running API instance.
type TestClient struct {
	BaseURL    string
	Username   string
	Password   string
	HTTPClient *http.Client
}

// NewTestClient creates a client against the instance named by
// CURVAS_API_URL. Tests calling this skip when the variable is unset.
func NewTestClient(t *testing.T) *TestClient {
	baseURL := os.Getenv("CURVAS_API_URL")
	if baseURL == "" {
		t.Skip("CURVAS_API_URL not set, skipping integration test")
	}
	return &TestClient{
		BaseURL:  baseURL,
		Username: getEnvDefault("CURVAS_API_USER", "admin@curvas.local"),
		Password: os.Getenv("CURVAS_API_PASSWORD"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.Username, c.Password)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// CreateMatch creates a match and returns its id.
func (c *TestClient) CreateMatch(t *testing.T, req models.CreateMatchRequest) int64 {
	resp := c.makeRequest(t, "POST", "/api/matches", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var createResp models.CreateMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&createResp); err != nil {
		t.Fatalf("Failed to decode create match response: %v", err)
	}
	return createResp.ID
}

// GetMatch fetches a match with its curva fill state.
func (c *TestClient) GetMatch(t *testing.T, matchID int64) *models.MatchDetailResponse {
	resp := c.makeRequest(t, "GET", fmt.Sprintf("/api/matches/%d", matchID), nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var detail models.MatchDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatalf("Failed to decode match detail response: %v", err)
	}
	return &detail
}

// StartMatch moves a match in progress.
func (c *TestClient) StartMatch(t *testing.T, matchID int64) {
	resp := c.makeRequest(t, "PATCH", "/api/matches/start", models.StartMatchRequest{MatchID: matchID})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
}

// UpdateScore records a running score.
func (c *TestClient) UpdateScore(t *testing.T, matchID int64, home, away int) {
	resp := c.makeRequest(t, "PATCH", "/api/matches/score", models.UpdateScoreRequest{
		MatchID:   matchID,
		HomeScore: &home,
		AwayScore: &away,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
}

// EndMatch settles a match and returns the outcome summary.
func (c *TestClient) EndMatch(t *testing.T, matchID int64) *models.EndMatchResponse {
	resp := c.makeRequest(t, "PATCH", "/api/matches/end", models.EndMatchRequest{MatchID: matchID})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var endResp models.EndMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&endResp); err != nil {
		t.Fatalf("Failed to decode end match response: %v", err)
	}
	return &endResp
}

// EndMatchExpectStatus ends a match expecting a specific status code.
func (c *TestClient) EndMatchExpectStatus(t *testing.T, matchID int64, expected int) {
	resp := c.makeRequest(t, "PATCH", "/api/matches/end", models.EndMatchRequest{MatchID: matchID})
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		t.Fatalf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}

// PurchaseTicket buys slots against a match.
func (c *TestClient) PurchaseTicket(t *testing.T, req models.PurchaseTicketRequest) *models.PurchaseTicketResponse {
	resp := c.makeRequest(t, "POST", "/api/tickets", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var purchaseResp models.PurchaseTicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&purchaseResp); err != nil {
		t.Fatalf("Failed to decode purchase response: %v", err)
	}
	return &purchaseResp
}

// ListTickets lists the authenticated user's tickets.
func (c *TestClient) ListTickets(t *testing.T) models.ListTicketsResponse {
	resp := c.makeRequest(t, "GET", "/api/tickets", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var tickets models.ListTicketsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tickets); err != nil {
		t.Fatalf("Failed to decode tickets response: %v", err)
	}
	return tickets
}

// ListCurvas lists the curvas of a match.
func (c *TestClient) ListCurvas(t *testing.T, matchID int64) models.ListCurvasResponse {
	resp := c.makeRequest(t, "GET", fmt.Sprintf("/api/curvas?match_id=%d", matchID), nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var curvas models.ListCurvasResponse
	if err := json.NewDecoder(resp.Body).Decode(&curvas); err != nil {
		t.Fatalf("Failed to decode curvas response: %v", err)
	}
	return curvas
}

// ChangeTicketStatus applies an administrative status override.
func (c *TestClient) ChangeTicketStatus(t *testing.T, req models.ChangeTicketStatusRequest, expected int) {
	resp := c.makeRequest(t, "PATCH", "/api/tickets/status", req)
	defer resp.Body.Close()

	if resp.StatusCode != expected {
		t.Fatalf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}
