// Package mailer talks to the transactional-mail function. The contract is a
// single POST of {to, template, data}; rendering happens on the mail side.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"essenza-backend/internal/domain"
)

type Message struct {
	To       string                 `json:"to"`
	Template domain.MailTemplate    `json:"template"`
	Data     map[string]interface{} `json:"data"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

func NewClient(url, token string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send posts the message and fails on any non-2xx response. There is no
// retry here: after an ambiguous failure a retry could double-mail the
// customer, and this channel is best-effort.
func (c *Client) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send mail: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
