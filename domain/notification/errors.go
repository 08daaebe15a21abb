package notification

import "errors"

var (
	// ErrNoRecipient is returned when the recipient address is missing
	ErrNoRecipient = errors.New("recipient address is required")

	// ErrNoAttachment is returned when there is nothing to attach
	ErrNoAttachment = errors.New("attachment path is required")

	// ErrMissingCredentials is returned when sender credentials are not configured
	ErrMissingCredentials = errors.New("sender credentials are not set")

	// ErrSendFailed is returned when the email fails to send
	ErrSendFailed = errors.New("failed to send email")
)
