// Package mailer wraps the transactional email provider. Callers treat it
// as fire-and-forget through the queue; only the worker sees its errors.
package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/archetypehq/qrtrack/internal/config"
)

type Client struct {
	apiKey   string
	fromName string
	fromAddr string
}

func NewClient(cfg config.EmailConfig) *Client {
	return &Client{
		apiKey:   cfg.SendGridKey,
		fromName: cfg.FromName,
		fromAddr: cfg.FromAddr,
	}
}

func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	from := mail.NewEmail(c.fromName, c.fromAddr)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, " ", html)

	client := sendgrid.NewSendClient(c.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}
