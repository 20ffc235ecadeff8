package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/metrics"
)

const (
	kindVerification  = "verification"
	kindEmailChange   = "email_change"
	kindPasswordReset = "password_reset"
)

// Frontend pages that read the token from the URL fragment and POST it back.
// Fragments are never sent to servers, so tokens stay out of access logs.
const (
	verifyPath        = "/verify-email"
	changeEmailPath   = "/change-email"
	resetPasswordPath = "/reset-password"
)

var bodyTmpl = template.Must(template.New("email").Parse(
	`<p>Hi {{.Name}},</p><p>{{.Intro}}</p><p><a href="{{.Link}}">{{.Action}}</a></p>` +
		`<p>If you did not request this, you can ignore this email.</p>`))

type bodyData struct {
	Name   string
	Intro  string
	Action string
	Link   string
}

// Mailer renders the transactional emails and hands them to a Sender.
type Mailer struct {
	sender      Sender
	frontendURL string
}

func NewMailer(sender Sender, frontendURL string) *Mailer {
	return &Mailer{sender: sender, frontendURL: strings.TrimRight(frontendURL, "/")}
}

func (m *Mailer) SendVerification(ctx context.Context, user *domain.User, to, token string) error {
	return m.send(ctx, kindVerification, to, "Confirm your email", bodyData{
		Name:   user.Name,
		Intro:  "Please confirm your email address to finish setting up your account.",
		Action: "Confirm email",
		Link:   m.link(verifyPath, token),
	})
}

func (m *Mailer) SendEmailChange(ctx context.Context, user *domain.User, to, token string) error {
	return m.send(ctx, kindEmailChange, to, "Confirm your new email", bodyData{
		Name:   user.Name,
		Intro:  "Confirm this address to make it the new email for your account.",
		Action: "Confirm new email",
		Link:   m.link(changeEmailPath, token),
	})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, user *domain.User, token string) error {
	return m.send(ctx, kindPasswordReset, user.Email, "Reset your password", bodyData{
		Name:   user.Name,
		Intro:  "Someone asked to reset the password for your account.",
		Action: "Choose a new password",
		Link:   m.link(resetPasswordPath, token),
	})
}

func (m *Mailer) link(path, token string) string {
	return m.frontendURL + path + "#token=" + url.QueryEscape(token)
}

func (m *Mailer) send(ctx context.Context, kind, to, subject string, data bodyData) error {
	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, data); err != nil {
		metrics.EmailsSentTotal.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("render %s email: %w", kind, err)
	}

	return deliver(ctx, m.sender, Message{Kind: kind, To: to, Subject: subject, HTML: body.String()})
}
