package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridNotifier delivers plain-text mail through the SendGrid v3 API.
type SendGridNotifier struct {
	APIKey   string
	From     string
	FromName string

	// Endpoint overrides the SendGrid API URL.  Used by tests.
	Endpoint string

	client *http.Client
}

// NewSendGridNotifier creates a notifier whose delivery calls are bounded by
// timeout.  A slow or hanging mail API must not stall a check cycle.
func NewSendGridNotifier(apiKey, from, fromName string, timeout time.Duration) *SendGridNotifier {
	return &SendGridNotifier{
		APIKey:   apiKey,
		From:     from,
		FromName: fromName,
		client:   &http.Client{Timeout: timeout},
	}
}

type sgEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgPersonalization struct {
	To []sgEmail `json:"to"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgMail struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgEmail             `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

// Send posts a single mail with one personalization per recipient.  Any
// non-2xx response is an error; the caller decides whether that matters.
func (n *SendGridNotifier) Send(ctx context.Context, subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	mail := sgMail{
		From:    sgEmail{Email: n.From, Name: n.FromName},
		Subject: subject,
		Content: []sgContent{{Type: "text/plain", Value: body}},
	}
	for _, r := range recipients {
		mail.Personalizations = append(mail.Personalizations, sgPersonalization{
			To: []sgEmail{{Email: r}},
		})
	}

	payload, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	endpoint := n.Endpoint
	if endpoint == "" {
		endpoint = sendGridEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := n.client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail API returned status %d: %s", resp.StatusCode, msg)
	}

	return nil
}
