package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"curvas/internal/models"
)

// APIValidator smoke-checks a running instance end to end: it creates
// a match, buys tickets and verifies the curva slot invariants hold.
type APIValidator struct {
	baseURL  string
	username string
	password string
}

func NewAPIValidator(baseURL, username, password string) *APIValidator {
	return &APIValidator{baseURL: baseURL, username: username, password: password}
}

func (v *APIValidator) ValidateAll() error {
	log.Println("Validating API endpoints...")

	matchID, err := v.validateMatches()
	if err != nil {
		return fmt.Errorf("matches validation failed: %w", err)
	}

	if err := v.validateTickets(matchID); err != nil {
		return fmt.Errorf("tickets validation failed: %w", err)
	}

	if err := v.validateCurvaInvariants(matchID); err != nil {
		return fmt.Errorf("curva invariant check failed: %w", err)
	}

	if err := v.validatePayments(); err != nil {
		return fmt.Errorf("payments validation failed: %w", err)
	}

	log.Println("All endpoints validated successfully")
	return nil
}

func (v *APIValidator) validateMatches() (int64, error) {
	log.Println("Checking match endpoints...")

	reqBody := models.CreateMatchRequest{
		HomeTeam:     "Validation Home",
		AwayTeam:     "Validation Away",
		Tournament:   "Validation Cup",
		StartsAt:     time.Now().Add(24 * time.Hour),
		RewardAmount: 100000,
	}

	resp, err := v.makeRequest("POST", "/api/matches", reqBody)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusCreated {
		resp.Body.Close()
		return 0, fmt.Errorf("POST /api/matches: expected 201, got %d", resp.StatusCode)
	}

	var createResp models.CreateMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&createResp); err != nil {
		resp.Body.Close()
		return 0, fmt.Errorf("POST /api/matches: failed to decode response: %w", err)
	}
	resp.Body.Close()

	if createResp.ID == 0 {
		return 0, fmt.Errorf("POST /api/matches: expected non-zero ID")
	}

	resp, err = v.makeRequest("GET", "/api/matches", nil)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return 0, fmt.Errorf("GET /api/matches: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = v.makeRequest("GET", fmt.Sprintf("/api/matches/%d", createResp.ID), nil)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return 0, fmt.Errorf("GET /api/matches/:id: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	return createResp.ID, nil
}

func (v *APIValidator) validateTickets(matchID int64) error {
	log.Println("Checking ticket endpoints...")

	reqBody := models.PurchaseTicketRequest{
		MatchID:     matchID,
		Quantity:    3,
		BuyerEmail:  "validator@example.com",
		PayedAmount: 10000,
	}

	resp, err := v.makeRequest("POST", "/api/tickets", reqBody)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		resp.Body.Close()
		return fmt.Errorf("POST /api/tickets: expected 201, got %d", resp.StatusCode)
	}

	var purchaseResp models.PurchaseTicketResponse
	if err := json.NewDecoder(resp.Body).Decode(&purchaseResp); err != nil {
		resp.Body.Close()
		return fmt.Errorf("POST /api/tickets: failed to decode response: %w", err)
	}
	resp.Body.Close()

	if len(purchaseResp.ResultsPurchased) != 3 {
		return fmt.Errorf("POST /api/tickets: expected 3 slots, got %d", len(purchaseResp.ResultsPurchased))
	}

	resp, err = v.makeRequest("GET", "/api/tickets", nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("GET /api/tickets: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	return nil
}

// validateCurvaInvariants checks that every curva partitions its 64
// slots cleanly between available and sold.
func (v *APIValidator) validateCurvaInvariants(matchID int64) error {
	log.Println("Checking curva invariants...")

	resp, err := v.makeRequest("GET", fmt.Sprintf("/api/curvas?match_id=%d", matchID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /api/curvas: expected 200, got %d", resp.StatusCode)
	}

	var curvas models.ListCurvasResponse
	if err := json.NewDecoder(resp.Body).Decode(&curvas); err != nil {
		return fmt.Errorf("GET /api/curvas: failed to decode response: %w", err)
	}
	if len(curvas) == 0 {
		return fmt.Errorf("expected at least one curva for match %d", matchID)
	}

	for _, c := range curvas {
		total := len(c.AvailableResults) + len(c.SoldResults)
		if total != 64 {
			return fmt.Errorf("curva %s: expected 64 slots, got %d", c.ID, total)
		}

		seen := make(map[string]bool, total)
		for _, slot := range c.AvailableResults {
			seen[slot] = true
		}
		for _, slot := range c.SoldResults {
			if seen[slot] {
				return fmt.Errorf("curva %s: slot %s is both available and sold", c.ID, slot)
			}
		}
	}

	return nil
}

func (v *APIValidator) validatePayments() error {
	log.Println("Checking payment endpoints...")

	// Unknown order ids come back 404 rather than 200, which still
	// proves the route is wired.
	resp, err := v.makeRequest("GET", "/api/payments/success?orderId=validator-missing", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("GET /api/payments/success: expected 200 or 404, got %d", resp.StatusCode)
	}

	resp, err = v.makeRequest("GET", "/api/payments/fail?orderId=validator-missing", nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("GET /api/payments/fail: expected 200 or 404, got %d", resp.StatusCode)
	}

	return nil
}

func (v *APIValidator) makeRequest(method, path string, body interface{}) (*http.Response, error) {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req, err = http.NewRequest(method, v.baseURL+path, bytes.NewBuffer(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, v.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
	}

	req.SetBasicAuth(v.username, v.password)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	return resp, nil
}

// RunValidation runs the smoke check against a running instance.
func RunValidation() {
	baseURL := os.Getenv("CURVAS_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	username := os.Getenv("CURVAS_API_USER")
	if username == "" {
		username = "admin@curvas.local"
	}
	password := os.Getenv("CURVAS_API_PASSWORD")

	validator := NewAPIValidator(baseURL, username, password)
	if err := validator.ValidateAll(); err != nil {
		log.Fatalf("Validation failed: %v", err)
	}
}
