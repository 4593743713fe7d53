package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HostedCheckout talks to the external payment provider's session API over
// HTTP. It is the default CheckoutProvider wiring; tests inject their own.
type HostedCheckout struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHostedCheckout(baseURL, apiKey string) *HostedCheckout {
	return &HostedCheckout{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (h *HostedCheckout) CreateSession(ctx context.Context, req *ProviderSessionRequest) (*ProviderSession, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+h.APIKey)

	resp, err := h.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, data)
	}

	var session ProviderSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("provider response missing session id or url")
	}

	return &session, nil
}
