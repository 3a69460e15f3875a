package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"robolab/internal/config"
)

const resendTimeout = 10 * time.Second

// ResendMailer sends mail through the Resend HTTP API
type ResendMailer struct {
	cfg        *config.ResendConfig
	httpClient *http.Client
}

// NewResendMailer creates an HTTP provider mailer
func NewResendMailer(cfg *config.ResendConfig) *ResendMailer {
	return &ResendMailer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: resendTimeout},
	}
}

// Name implements Mailer
func (m *ResendMailer) Name() string { return "resend" }

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	BCC     []string `json:"bcc,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html,omitempty"`
}

// Send implements Mailer
func (m *ResendMailer) Send(ctx context.Context, msg *Email) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("resend: no recipients")
	}

	payload := resendRequest{
		From:    m.cfg.From,
		To:      msg.To,
		BCC:     msg.BCC,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := strings.TrimRight(m.cfg.BaseURL, "/") + "/emails"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
