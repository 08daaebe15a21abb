package mail

import (
	"fmt"
	"os"
	"path/filepath"

	"mashup/domain/notification"

	gomail "github.com/wneessen/go-mail"
)

// zipContentType is the MIME type of the attached archive
const zipContentType gomail.ContentType = "application/zip"

// BuildMessage renders tmpl for req and returns a multipart message from
// sender with the archive attached
func BuildMessage(from notification.Recipient, req *notification.EmailRequest, tmpl notification.EmailTemplate) (*gomail.Msg, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email request: %w", err)
	}
	if from.Address == "" {
		return nil, notification.ErrMissingCredentials
	}
	if _, err := os.Stat(req.AttachmentPath); err != nil {
		return nil, fmt.Errorf("attachment not readable: %w", err)
	}

	data := notification.TemplateData{
		Greeting:    notification.FormatGreeting(req.To),
		Performer:   req.Performer,
		ClipCount:   req.ClipCount,
		ClipSeconds: req.ClipSeconds,
		Attachment:  filepath.Base(req.AttachmentPath),
	}

	subject, err := tmpl.RenderSubject(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render subject: %w", err)
	}

	plainText, err := tmpl.RenderPlainText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render plain text: %w", err)
	}

	htmlBody, err := tmpl.RenderHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	msg := gomail.NewMsg()
	if from.Name != "" {
		err = msg.FromFormat(from.Name, from.Address)
	} else {
		err = msg.From(from.Address)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if req.To.Name != "" {
		err = msg.AddToFormat(req.To.Name, req.To.Address)
	} else {
		err = msg.To(req.To.Address)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, plainText)
	msg.AddAlternativeString(gomail.TypeTextHTML, htmlBody)
	msg.AttachFile(req.AttachmentPath,
		gomail.WithFileName(filepath.Base(req.AttachmentPath)),
		gomail.WithFileContentType(zipContentType),
	)

	return msg, nil
}
