package email_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/email"
	"github.com/ErlanBelekov/guide-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg email.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func TestMailer_Links(t *testing.T) {
	sender := &fakeSender{}
	m := email.NewMailer(sender, "https://guide.example.com/")
	user := &domain.User{ID: 1, Name: "Ann", Email: "ann@x.com"}
	ctx := context.Background()

	require.NoError(t, m.SendVerification(ctx, user, user.Email, "tok.en.1"))
	require.NoError(t, m.SendEmailChange(ctx, user, "new@x.com", "tok.en.2"))
	require.NoError(t, m.SendPasswordReset(ctx, user, "tok.en.3"))
	require.Len(t, sender.sent, 3)

	tests := []struct {
		kind string
		to   string
		link string
	}{
		{"verification", "ann@x.com", "https://guide.example.com/verify-email#token=tok.en.1"},
		{"email_change", "new@x.com", "https://guide.example.com/change-email#token=tok.en.2"},
		{"password_reset", "ann@x.com", "https://guide.example.com/reset-password#token=tok.en.3"},
	}
	for i, tc := range tests {
		assert.Equal(t, tc.kind, sender.sent[i].Kind)
		assert.Equal(t, tc.to, sender.sent[i].To)
		assert.Contains(t, sender.sent[i].HTML, tc.link)
		assert.Contains(t, sender.sent[i].HTML, "Hi Ann")
		assert.NotContains(t, sender.sent[i].HTML, "?token=", "tokens must not travel in a query string")
	}
}

func TestMailer_EscapesName(t *testing.T) {
	sender := &fakeSender{}
	m := email.NewMailer(sender, "https://guide.example.com")

	err := m.SendVerification(context.Background(), &domain.User{Name: "<script>"}, "a@x.com", "t")
	require.NoError(t, err)
	assert.False(t, strings.Contains(sender.sent[0].HTML, "<script>"))
}

func TestMailer_SenderError(t *testing.T) {
	boom := errors.New("resend down")
	m := email.NewMailer(&fakeSender{err: boom}, "https://guide.example.com")

	before := testutil.ToFloat64(metrics.EmailsSentTotal.WithLabelValues("password_reset", "error"))
	err := m.SendPasswordReset(context.Background(), &domain.User{Email: "a@x.com"}, "t")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EmailsSentTotal.WithLabelValues("password_reset", "error")))
}

func TestLogSender_DoesNotLogBody(t *testing.T) {
	var buf bytes.Buffer
	sender := email.NewSender("local", "", "", slog.New(slog.NewJSONHandler(&buf, nil)))

	m := email.NewMailer(sender, "https://guide.example.com")
	require.NoError(t, m.SendPasswordReset(context.Background(), &domain.User{Email: "a@x.com"}, "secret.reset.token"))

	assert.Contains(t, buf.String(), "a@x.com")
	assert.NotContains(t, buf.String(), "secret.reset.token")
}

func TestMailer_CountsSuccess(t *testing.T) {
	m := email.NewMailer(&fakeSender{}, "https://guide.example.com")

	before := testutil.ToFloat64(metrics.EmailsSentTotal.WithLabelValues("verification", "ok"))
	require.NoError(t, m.SendVerification(context.Background(), &domain.User{}, "a@x.com", "t"))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EmailsSentTotal.WithLabelValues("verification", "ok")))
}
