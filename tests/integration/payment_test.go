package integration

import (
	"net/http"
	"testing"
)

// The gateway calls the redirect and webhook endpoints without operator
// credentials, so they must not sit behind Basic Auth.
func TestPaymentCallbacksSkipBasicAuth(t *testing.T) {
	client := NewTestClient(t)

	paths := []string{
		"/api/payments/success?orderId=missing-order",
		"/api/payments/fail?orderId=missing-order",
	}
	for _, path := range paths {
		req, err := http.NewRequest("GET", client.BaseURL+path, nil)
		if err != nil {
			t.Fatalf("Failed to create request: %v", err)
		}
		resp, err := client.HTTPClient.Do(req)
		if err != nil {
			t.Fatalf("Request to %s failed: %v", path, err)
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			t.Errorf("Expected %s to be reachable without credentials, got 401", path)
		}
	}
}
