package mail

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mashup/domain/notification"

	gomail "github.com/wneessen/go-mail"
)

// mockDialer records submitted messages
type mockDialer struct {
	sent       []*gomail.Msg
	shouldFail bool
	failError  error
}

func (m *mockDialer) DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error {
	if m.shouldFail {
		return m.failError
	}
	m.sent = append(m.sent, messages...)
	return nil
}

func writeArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mashup.zip")
	if err := os.WriteFile(path, []byte("PK\x03\x04fake"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func staticCredentials(user, pass string) CredentialsFunc {
	return func() (Credentials, error) {
		return Credentials{Username: user, Password: pass}, nil
	}
}

func TestSMTPSender_Send(t *testing.T) {
	dialer := &mockDialer{}
	var gotHost string
	var gotPort int
	var gotCreds Credentials

	sender := NewSMTPSender(
		staticCredentials("sender@example.com", "app-password"),
		WithFromName("Mashup Bot"),
		WithDialerFactory(func(host string, port int, creds Credentials) (Dialer, error) {
			gotHost, gotPort, gotCreds = host, port, creds
			return dialer, nil
		}),
	)

	req := &notification.EmailRequest{
		To:             notification.Recipient{Address: "x@y.com"},
		Performer:      "TestArtist",
		ClipCount:      11,
		ClipSeconds:    21,
		AttachmentPath: writeArchive(t),
	}

	if err := sender.Send(context.Background(), req); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotHost != DefaultSMTPHost || gotPort != DefaultSMTPPort {
		t.Errorf("dialed %s:%d, want %s:%d", gotHost, gotPort, DefaultSMTPHost, DefaultSMTPPort)
	}
	if gotCreds.Username != "sender@example.com" || gotCreds.Password != "app-password" {
		t.Errorf("credentials = %+v", gotCreds)
	}
	if len(dialer.sent) != 1 {
		t.Fatalf("expected 1 message sent, got %d", len(dialer.sent))
	}

	var buf bytes.Buffer
	if _, err := dialer.sent[0].WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	raw := buf.String()

	checks := []string{
		"Subject: Your Mashup File",
		"sender@example.com",
		"Mashup Bot",
		"<x@y.com>",
		"application/zip",
		"mashup.zip",
	}
	for _, check := range checks {
		if !strings.Contains(raw, check) {
			t.Errorf("message missing %q in:\n%s", check, raw)
		}
	}
}

func TestSMTPSender_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		user string
		pass string
	}{
		{"no user", "", "secret"},
		{"no password", "sender@example.com", ""},
		{"nothing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialed := false
			sender := NewSMTPSender(
				staticCredentials(tt.user, tt.pass),
				WithDialerFactory(func(host string, port int, creds Credentials) (Dialer, error) {
					dialed = true
					return &mockDialer{}, nil
				}),
			)

			err := sender.Send(context.Background(), &notification.EmailRequest{
				To:             notification.Recipient{Address: "x@y.com"},
				AttachmentPath: writeArchive(t),
			})
			if !errors.Is(err, notification.ErrMissingCredentials) {
				t.Errorf("Send() error = %v, want ErrMissingCredentials", err)
			}
			if dialed {
				t.Error("expected no SMTP connection without credentials")
			}
		})
	}
}

func TestSMTPSender_TransportFailure(t *testing.T) {
	dialer := &mockDialer{shouldFail: true, failError: errors.New("535 5.7.8 Username and Password not accepted")}
	sender := NewSMTPSender(
		staticCredentials("sender@example.com", "wrong"),
		WithDialerFactory(func(host string, port int, creds Credentials) (Dialer, error) {
			return dialer, nil
		}),
	)

	err := sender.Send(context.Background(), &notification.EmailRequest{
		To:             notification.Recipient{Address: "x@y.com"},
		AttachmentPath: writeArchive(t),
	})
	if !errors.Is(err, notification.ErrSendFailed) {
		t.Fatalf("Send() error = %v, want ErrSendFailed", err)
	}
	if !strings.Contains(err.Error(), "Username and Password not accepted") {
		t.Errorf("Send() error should carry transport text, got %v", err)
	}
}

func TestBuildMessage_Validation(t *testing.T) {
	from := notification.Recipient{Address: "sender@example.com"}

	if _, err := BuildMessage(from, &notification.EmailRequest{AttachmentPath: "a.zip"}, notification.DefaultTemplate); !errors.Is(err, notification.ErrNoRecipient) {
		t.Errorf("BuildMessage() error = %v, want ErrNoRecipient", err)
	}

	missing := &notification.EmailRequest{
		To:             notification.Recipient{Address: "x@y.com"},
		AttachmentPath: filepath.Join(t.TempDir(), "missing.zip"),
	}
	if _, err := BuildMessage(from, missing, notification.DefaultTemplate); err == nil {
		t.Error("BuildMessage() expected error for missing attachment")
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("MASHUP_TEST_USER", "")
	t.Setenv("MASHUP_TEST_PASS", "")

	creds := EnvCredentials("MASHUP_TEST_USER", "MASHUP_TEST_PASS")

	got, err := creds()
	if err != nil {
		t.Fatalf("creds() error = %v", err)
	}
	if got.Username != "" || got.Password != "" {
		t.Errorf("creds() = %+v, want empty", got)
	}

	t.Setenv("MASHUP_TEST_USER", "sender@example.com")
	t.Setenv("MASHUP_TEST_PASS", "secret")

	got, _ = creds()
	if got.Username != "sender@example.com" || got.Password != "secret" {
		t.Errorf("creds() = %+v, want values set after construction", got)
	}
}
