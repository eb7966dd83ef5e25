package external

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// PaymentClient talks to a Wompi-style card payment gateway. The core
// never calls it during allocation or settlement; only the purchase
// flow and the webhook reconciliation use it.
type PaymentClient struct {
	baseURL      string
	publicKey    string
	integrityKey string
	currency     string
	httpClient   *http.Client
}

type PaymentConfig struct {
	BaseURL      string
	PublicKey    string
	IntegrityKey string
	Currency     string
	Timeout      time.Duration
}

type TransactionRequest struct {
	PublicKey     string `json:"public_key"`
	AmountInCents int64  `json:"amount_in_cents"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference"`
	Signature     string `json:"signature"`
	CustomerEmail string `json:"customer_email,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
}

type TransactionResponse struct {
	Data struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		Reference   string `json:"reference"`
		CheckoutURL string `json:"checkout_url"`
		CreatedAt   string `json:"created_at"`
	} `json:"data"`
}

type TransactionStatus struct {
	Data struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		StatusMessage string `json:"status_message"`
		Reference     string `json:"reference"`
		AmountInCents int64  `json:"amount_in_cents"`
	} `json:"data"`
}

func NewPaymentClient(cfg PaymentConfig) *PaymentClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "COP"
	}

	return &PaymentClient{
		baseURL:      cfg.BaseURL,
		publicKey:    cfg.PublicKey,
		integrityKey: cfg.IntegrityKey,
		currency:     cfg.Currency,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// signature computes the integrity hash the gateway requires:
// SHA-256 over reference + amount + currency + integrity key.
func (pc *PaymentClient) signature(reference string, amountInCents int64) string {
	payload := reference + strconv.FormatInt(amountInCents, 10) + pc.currency + pc.integrityKey
	hash := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(hash[:])
}

// CreateTransaction starts a card payment and returns the checkout URL
// the buyer is redirected to.
func (pc *PaymentClient) CreateTransaction(amountInCents int64, reference, customerEmail string) (*TransactionResponse, error) {
	req := TransactionRequest{
		PublicKey:     pc.publicKey,
		AmountInCents: amountInCents,
		Currency:      pc.currency,
		Reference:     reference,
		Signature:     pc.signature(reference, amountInCents),
		CustomerEmail: customerEmail,
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := pc.httpClient.Post(pc.baseURL+"/transactions", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result TransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// GetTransaction checks the gateway-side status of a payment.
func (pc *PaymentClient) GetTransaction(transactionID string) (*TransactionStatus, error) {
	resp, err := pc.httpClient.Get(pc.baseURL + "/transactions/" + transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result TransactionStatus
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// VoidTransaction cancels a pending transaction.
func (pc *PaymentClient) VoidTransaction(transactionID string) error {
	req, err := http.NewRequest("POST", pc.baseURL+"/transactions/"+transactionID+"/void", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to void transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
