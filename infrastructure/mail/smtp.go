package mail

import (
	"context"
	"fmt"
	"os"

	"mashup/domain/notification"

	gomail "github.com/wneessen/go-mail"
)

// Defaults match Gmail's implicit-TLS submission endpoint
const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 465
)

// Credentials are the sender's login for SMTP submission
type Credentials struct {
	Username string
	Password string
}

// CredentialsFunc resolves credentials at send time
type CredentialsFunc func() (Credentials, error)

// Dialer submits messages to an SMTP server
type Dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// DialerFactory creates a Dialer for the given server and credentials
type DialerFactory func(host string, port int, creds Credentials) (Dialer, error)

// SMTPSender implements notification.EmailSender over authenticated SMTP
type SMTPSender struct {
	host        string
	port        int
	fromName    string
	credentials CredentialsFunc
	newDialer   DialerFactory
	template    notification.EmailTemplate
}

// SMTPOption is a functional option for configuring SMTPSender
type SMTPOption func(*SMTPSender)

// WithServer sets the SMTP host and port
func WithServer(host string, port int) SMTPOption {
	return func(s *SMTPSender) {
		if host != "" {
			s.host = host
		}
		if port > 0 {
			s.port = port
		}
	}
}

// WithFromName sets the display name on the From header
func WithFromName(name string) SMTPOption {
	return func(s *SMTPSender) {
		s.fromName = name
	}
}

// WithDialerFactory sets a custom dialer factory (for testing)
func WithDialerFactory(f DialerFactory) SMTPOption {
	return func(s *SMTPSender) {
		s.newDialer = f
	}
}

// WithTemplate sets a custom email template
func WithTemplate(tmpl notification.EmailTemplate) SMTPOption {
	return func(s *SMTPSender) {
		s.template = tmpl
	}
}

// NewSMTPSender creates a sender that looks up credentials on every Send
func NewSMTPSender(credentials CredentialsFunc, opts ...SMTPOption) *SMTPSender {
	s := &SMTPSender{
		host:        DefaultSMTPHost,
		port:        DefaultSMTPPort,
		credentials: credentials,
		newDialer:   newTLSDialer,
		template:    notification.DefaultTemplate,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Send implements notification.EmailSender
func (s *SMTPSender) Send(ctx context.Context, req *notification.EmailRequest) error {
	creds, err := s.credentials()
	if err != nil {
		return err
	}
	if creds.Username == "" || creds.Password == "" {
		return notification.ErrMissingCredentials
	}

	from := notification.Recipient{Name: s.fromName, Address: creds.Username}
	msg, err := BuildMessage(from, req, s.template)
	if err != nil {
		return err
	}

	dialer, err := s.newDialer(s.host, s.port, creds)
	if err != nil {
		return fmt.Errorf("%w: %v", notification.ErrSendFailed, err)
	}

	if err := dialer.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrSendFailed, err)
	}

	return nil
}

func newTLSDialer(host string, port int, creds Credentials) (Dialer, error) {
	return gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(creds.Username),
		gomail.WithPassword(creds.Password),
	)
}

// Ensure SMTPSender implements notification.EmailSender
var _ notification.EmailSender = (*SMTPSender)(nil)

// EnvCredentials reads the username and password variables on every call
func EnvCredentials(userVar, passVar string) CredentialsFunc {
	return func() (Credentials, error) {
		return Credentials{
			Username: os.Getenv(userVar),
			Password: os.Getenv(passVar),
		}, nil
	}
}
