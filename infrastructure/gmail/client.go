package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"mashup/domain/notification"
	"mashup/infrastructure/mail"

	"google.golang.org/api/gmail/v1"
)

// GmailService defines the interface for Gmail API operations
// This allows mocking the Gmail API in tests
type GmailService interface {
	SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error)
}

// GoogleGmailService is the production implementation using the Gmail API
type GoogleGmailService struct {
	service *gmail.Service
}

// SendMessage sends an email via Gmail API
func (s *GoogleGmailService) SendMessage(ctx context.Context, userID string, message *gmail.Message) (*gmail.Message, error) {
	return s.service.Users.Messages.Send(userID, message).Context(ctx).Do()
}

// ServiceResolver builds the Gmail service on first use
type ServiceResolver func(ctx context.Context) (GmailService, error)

// Client implements notification.EmailSender using Gmail API
type Client struct {
	mu           sync.Mutex
	gmailService GmailService
	resolve      ServiceResolver
	from         notification.Recipient
	template     notification.EmailTemplate
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithGmailService sets a custom Gmail service (for testing)
func WithGmailService(svc GmailService) ClientOption {
	return func(c *Client) {
		c.gmailService = svc
	}
}

// WithServiceResolver defers building the Gmail service until the first Send.
// A resolver error fails that Send and is retried on the next one.
func WithServiceResolver(resolve ServiceResolver) ClientOption {
	return func(c *Client) {
		c.resolve = resolve
	}
}

// WithTemplate sets a custom email template
func WithTemplate(tmpl notification.EmailTemplate) ClientOption {
	return func(c *Client) {
		c.template = tmpl
	}
}

// NewClient creates a new Gmail client
func NewClient(from notification.Recipient, opts ...ClientOption) *Client {
	c := &Client{
		from:     from,
		template: notification.DefaultTemplate,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send builds the MIME message with the archive attached and submits it
// through the Gmail API as the authorized user
func (c *Client) Send(ctx context.Context, req *notification.EmailRequest) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	msg, err := mail.BuildMessage(c.from, req, c.template)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(buf.Bytes()),
	}

	if _, err := svc.SendMessage(ctx, "me", message); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrSendFailed, err)
	}

	return nil
}

func (c *Client) service(ctx context.Context) (GmailService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gmailService != nil {
		return c.gmailService, nil
	}
	if c.resolve == nil {
		return nil, notification.ErrMissingCredentials
	}

	svc, err := c.resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", notification.ErrMissingCredentials, err)
	}
	c.gmailService = svc
	return svc, nil
}

// Ensure Client implements notification.EmailSender
var _ notification.EmailSender = (*Client)(nil)
