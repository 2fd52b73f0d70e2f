package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/internal/config"
)

func TestLogMailer_Send(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)), "noreply@yamdb.local")

	err := m.Send(context.Background(), Message{To: "bob@example.com", Subject: "Registration code", Body: "code: abc123"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "mail_sent")
	assert.Contains(t, out, "bob@example.com")
	assert.Contains(t, out, "abc123")
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer("smtp.local:25", "smtp.local", "noreply@yamdb.local", "", "")

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}

	err := m.Send(context.Background(), Message{To: "bob@example.com", Subject: "hi", Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.local:25", gotAddr)
	assert.Equal(t, []string{"bob@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: hi\r\n")
	assert.True(t, strings.HasSuffix(string(gotMsg), "\r\n\r\nhello\r\n"))
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := NewSMTPMailer("smtp.local:25", "smtp.local", "noreply@yamdb.local", "u", "p")
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send(context.Background(), Message{To: "bob@example.com"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPMailer_CanceledContext(t *testing.T) {
	m := NewSMTPMailer("smtp.local:25", "smtp.local", "noreply@yamdb.local", "", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Send(ctx, Message{To: "bob@example.com"}), context.Canceled)
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := string(buildMessage("a@x", Message{To: "b@x", Subject: "s", Body: "b"}, now))

	assert.Contains(t, msg, "From: a@x\r\n")
	assert.Contains(t, msg, "To: b@x\r\n")
	assert.Contains(t, msg, "Date: Tue, 02 Jan 2024 03:04:05 +0000\r\n")
}

func TestNew(t *testing.T) {
	assert.IsType(t, &LogMailer{}, New(&config.Config{MailBackend: "log"}, slog.Default()))
	assert.IsType(t, &SMTPMailer{}, New(&config.Config{MailBackend: "smtp", SMTPHost: "h", SMTPPort: 25}, slog.Default()))
}
