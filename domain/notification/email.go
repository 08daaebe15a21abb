package notification

import (
	"context"
)

// Recipient represents an email address with an optional display name
type Recipient struct {
	Name    string
	Address string
}

// String formats the recipient for a mail header
func (r Recipient) String() string {
	if r.Name == "" {
		return r.Address
	}
	return r.Name + " <" + r.Address + ">"
}

// EmailRequest contains everything needed to deliver a finished mashup
type EmailRequest struct {
	To             Recipient
	Performer      string // Performer the mashup was built from
	ClipCount      int    // Number of clips that made it into the mashup
	ClipSeconds    int    // Per-clip duration requested
	AttachmentPath string // Path to the zip archive
}

// Validate checks that the email request has all required fields
func (r *EmailRequest) Validate() error {
	if r.To.Address == "" {
		return ErrNoRecipient
	}
	if r.AttachmentPath == "" {
		return ErrNoAttachment
	}
	return nil
}

// EmailSender defines the interface for sending emails
type EmailSender interface {
	Send(ctx context.Context, req *EmailRequest) error
}
