// Package voice wraps the hosted voice-agent provider: a thin control-plane
// client plus the per-user call lifecycle. The provider's real-time media and
// agent state machine are opaque; only call start/stop and its webhook events
// touch this codebase.
package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrProviderUnavailable = errors.New("voice provider unavailable")

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second)
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &Client{http: c}
}

type startCallRequest struct {
	AssistantID string `json:"assistantId"`
}

type callResource struct {
	ID string `json:"id"`
}

// StartCall asks the provider to open a call with the given assistant and
// returns the provider's call id.
func (c *Client) StartCall(ctx context.Context, assistantID string) (string, error) {
	var out callResource
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(startCallRequest{AssistantID: assistantID}).
		SetResult(&out).
		Post("/call")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: HTTP %d", ErrProviderUnavailable, resp.StatusCode())
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: missing call id", ErrProviderUnavailable)
	}
	return out.ID, nil
}

func (c *Client) StopCall(ctx context.Context, callID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/call/" + callID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("%w: HTTP %d", ErrProviderUnavailable, resp.StatusCode())
	}
	return nil
}
