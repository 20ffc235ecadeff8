package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/guide-api/internal/metrics"
	"github.com/resend/resend-go/v2"
)

// Message is one rendered transactional email. Kind names the flow that
// produced it (verification, email_change, password_reset).
type Message struct {
	Kind    string
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// deliver hands msg to s and counts the outcome per kind.
func deliver(ctx context.Context, s Sender, msg Message) error {
	if err := s.Send(ctx, msg); err != nil {
		metrics.EmailsSentTotal.WithLabelValues(msg.Kind, "error").Inc()
		return fmt.Errorf("send %s email: %w", msg.Kind, err)
	}
	metrics.EmailsSentTotal.WithLabelValues(msg.Kind, "ok").Inc()
	return nil
}

// LogSender stands in for a provider in ENV=local. Bodies carry signed
// tokens, so only the envelope is logged.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email not sent (local dev)",
		"kind", msg.Kind,
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.HTML),
	)
	return nil
}

// ResendSender delivers through the Resend API. Each email is tagged with its
// kind so bounces can be told apart in the Resend dashboard.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Tags:    []resend.Tag{{Name: "kind", Value: msg.Kind}},
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local, ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger.With("component", "email")}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}
