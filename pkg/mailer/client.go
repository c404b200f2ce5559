package mailer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/moodpath/moodpath-backend/pkg/config"
	"github.com/moodpath/moodpath-backend/pkg/logger"
)

const (
	defaultHost  = "https://api.sendgrid.com"
	sendEndpoint = "/v3/mail/send"
)

// Sender is the outbound email surface consumed by services. Delivery is
// fire-and-forget from the caller's perspective: failures are logged by the
// caller, never retried.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Client wraps the SendGrid SDK for single-recipient HTML mail.
type Client struct {
	apiKey   string
	host     string
	from     string
	fromName string
}

// New builds a SendGrid-backed mail client.
func New(cfg config.SendgridConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if strings.TrimSpace(cfg.DefaultFrom) == "" {
		return nil, fmt.Errorf("sendgrid from email is required")
	}
	return &Client{
		apiKey:   cfg.APIKey,
		host:     defaultHost,
		from:     cfg.DefaultFrom,
		fromName: cfg.FromName,
	}, nil
}

// Send delivers one HTML email to a single recipient.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient is required")
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(c.fromName, c.from))
	message.Subject = subject
	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	message.AddPersonalizations(personalization)
	message.AddContent(mail.NewContent("text/html", htmlBody))

	request := sendgrid.GetRequest(c.apiKey, sendEndpoint, c.host)
	request.Method = http.MethodPost
	request.Body = mail.GetRequestBody(message)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	return nil
}

// LogOnly is a Sender for environments without SendGrid credentials; it writes
// the message to the log instead of delivering it.
type LogOnly struct {
	Logg *logger.Logger
}

func (l LogOnly) Send(ctx context.Context, to, subject, htmlBody string) error {
	if l.Logg != nil {
		ctx = l.Logg.WithFields(ctx, map[string]any{"to": to, "subject": subject})
		l.Logg.Info(ctx, "mail suppressed (no sendgrid credentials)")
	}
	return nil
}

// FromConfig returns a real client when credentials exist, the log-only sender
// otherwise.
func FromConfig(cfg config.SendgridConfig, logg *logger.Logger) Sender {
	client, err := New(cfg)
	if err != nil {
		return LogOnly{Logg: logg}
	}
	return client
}
