package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/osse101/NuggetBot_Go/internal/domain"
)

// APIClient handles communication with the NuggetBot Core API
type APIClient struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		APIKey: apiKey,
	}
}

// doRequest performs an HTTP request with retry logic
func (c *APIClient) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var reqBody []byte
	var err error

	if body != nil {
		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	url := fmt.Sprintf("%s%s", c.BaseURL, path)

	// Retry configuration
	maxRetries := 3
	retryDelay := 500 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter
			jitter := time.Duration(time.Now().UnixNano()%100) * time.Millisecond
			delay := retryDelay*time.Duration(1<<uint(attempt-1)) + jitter
			time.Sleep(delay)
			slog.Info("Retrying API request", "attempt", attempt, "path", path, "delay", delay)
		}

		req, err := http.NewRequest(method, url, bytes.NewBuffer(reqBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("X-API-Key", c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			slog.Warn("API request failed", "error", err, "attempt", attempt)
			continue
		}

		// Success or non-retryable error
		if resp.StatusCode < 500 {
			return resp, nil
		}

		// Server error - retry
		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		slog.Warn("Server error, will retry", "status", resp.StatusCode, "attempt", attempt)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// decodeAPIError extracts the error field from a non-2xx response body.
// Falls back to the bare status code when the body is not the standard shape.
func decodeAPIError(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("API error: %s", errResp.Error)
	}
	return fmt.Errorf("API returned status: %d", resp.StatusCode)
}

// GetBalance returns an account's nugget balance. Unknown accounts are zero.
func (c *APIClient) GetBalance(accountID string) (int, error) {
	path := "/api/v1/balance?account_id=" + url.QueryEscape(accountID)
	resp, err := c.doRequest(http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeAPIError(resp)
	}

	var balance struct {
		AccountID string `json:"account_id"`
		Amount    int    `json:"amount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return 0, fmt.Errorf("failed to decode balance: %w", err)
	}

	return balance.Amount, nil
}

// Transfer moves nuggets from one account to another
func (c *APIClient) Transfer(fromID, toID string, amount int) error {
	req := map[string]interface{}{
		"from_id": fromID,
		"to_id":   toID,
		"amount":  amount,
	}

	resp, err := c.doRequest(http.MethodPost, "/api/v1/transfer", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	return nil
}

// AdminCredit adjusts an account by a signed delta and returns the new balance
func (c *APIClient) AdminCredit(accountID string, amount int) (int, error) {
	req := map[string]interface{}{
		"account_id": accountID,
		"amount":     amount,
	}

	resp, err := c.doRequest(http.MethodPost, "/api/v1/admin/credit", req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeAPIError(resp)
	}

	var credit struct {
		AccountID  string `json:"account_id"`
		NewBalance int    `json:"new_balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&credit); err != nil {
		return 0, fmt.Errorf("failed to decode credit: %w", err)
	}

	return credit.NewBalance, nil
}

// ProposeSession opens a new wagering session awaiting confirmation
func (c *APIClient) ProposeSession(ownerID, game string, wager int) (*domain.SessionSnapshot, error) {
	req := map[string]interface{}{
		"owner_id": ownerID,
		"game":     game,
		"wager":    wager,
	}

	resp, err := c.doRequest(http.MethodPost, "/api/v1/session/propose", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeAPIError(resp)
	}

	return decodeSnapshot(resp)
}

// ActSession routes one player action to a session
func (c *APIClient) ActSession(sessionID, actorID, action string) (*domain.SessionSnapshot, error) {
	req := map[string]interface{}{
		"session_id": sessionID,
		"actor_id":   actorID,
		"action":     action,
	}

	resp, err := c.doRequest(http.MethodPost, "/api/v1/session/act", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	return decodeSnapshot(resp)
}

// GetSession fetches the presentation snapshot for a session
func (c *APIClient) GetSession(sessionID string) (*domain.SessionSnapshot, error) {
	path := "/api/v1/session?session_id=" + url.QueryEscape(sessionID)
	resp, err := c.doRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	return decodeSnapshot(resp)
}

func decodeSnapshot(resp *http.Response) (*domain.SessionSnapshot, error) {
	var snap domain.SessionSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &snap, nil
}
