// Package assistant calls the remote chat-response function. The function's
// internal logic (intent matching, trial ranking, response generation) lives
// outside this codebase; this client only owns the request/response exchange.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrUnavailable = errors.New("assistant unavailable")

type Request struct {
	Message  string `json:"message"`
	UseVoice bool   `json:"useVoice,omitempty"`
}

type Response struct {
	Response string `json:"response"`
}

type Client struct {
	url  string
	http *resty.Client
}

func NewClient(url, apiKey string) *Client {
	c := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(0) // failures surface to the caller, never retried here
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &Client{url: url, http: c}
}

// Reply sends one user utterance and returns the assistant's text.
func (c *Client) Reply(ctx context.Context, message string, useVoice bool) (string, error) {
	var out Response
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(Request{Message: message, UseVoice: useVoice}).
		SetResult(&out).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode())
	}
	if out.Response == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return out.Response, nil
}
