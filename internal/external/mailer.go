package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MailerClient sends transactional emails through an HTTP notification
// service. Callers treat every send as fire-and-forget: failures are
// logged and never abort the state change that triggered them.
type MailerClient struct {
	baseURL    string
	from       string
	httpClient *http.Client
}

type MailerConfig struct {
	BaseURL string
	From    string
	Timeout time.Duration
}

type sendEmailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewMailerClient(cfg MailerConfig) *MailerClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &MailerClient{
		baseURL: cfg.BaseURL,
		from:    cfg.From,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (mc *MailerClient) send(to, subject, body string) error {
	req := sendEmailRequest{
		From:    mc.from,
		To:      to,
		Subject: subject,
		Body:    body,
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	resp, err := mc.httpClient.Post(mc.baseURL+"/api/v1/send", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// SendPurchaseConfirmation mails the buyer their ticket number and slots.
func (mc *MailerClient) SendPurchaseConfirmation(to string, ticketNumber int64, slots []string) error {
	body := fmt.Sprintf("Your ticket #%d is confirmed. Results purchased: %v. Good luck!", ticketNumber, slots)
	return mc.send(to, fmt.Sprintf("Ticket #%d confirmed", ticketNumber), body)
}

// SendResult mails the buyer the settlement outcome of one ticket.
func (mc *MailerClient) SendResult(to string, ticketNumber int64, status string, rewardAmount *int64) error {
	var body string
	if rewardAmount != nil {
		body = fmt.Sprintf("Your ticket #%d is a winner! Reward: %d. Congratulations!", ticketNumber, *rewardAmount)
	} else {
		body = fmt.Sprintf("Your ticket #%d did not win this time. Result: %s.", ticketNumber, status)
	}
	return mc.send(to, fmt.Sprintf("Ticket #%d result", ticketNumber), body)
}
