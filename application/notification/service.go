package notification

import (
	"context"
	"fmt"
	"log/slog"

	"mashup/domain/notification"
)

// Archiver packages a single file into an archive
type Archiver interface {
	Zip(srcPath, archivePath string) error
}

// Service delivers a finished mashup by email
type Service struct {
	archiver Archiver
	sender   notification.EmailSender
}

// NewService creates a new delivery service
func NewService(archiver Archiver, sender notification.EmailSender) *Service {
	return &Service{
		archiver: archiver,
		sender:   sender,
	}
}

// DeliverRequest contains the parameters for delivering one mashup
type DeliverRequest struct {
	To          notification.Recipient
	OutputPath  string // the finished .mp3
	ArchivePath string // where the zip is written
	Performer   string
	ClipCount   int
	ClipSeconds int
}

// Deliver zips the output and emails the archive. Nothing is retried.
func (s *Service) Deliver(ctx context.Context, req DeliverRequest) error {
	if req.To.Address == "" {
		return notification.ErrNoRecipient
	}

	if err := s.archiver.Zip(req.OutputPath, req.ArchivePath); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	emailReq := &notification.EmailRequest{
		To:             req.To,
		Performer:      req.Performer,
		ClipCount:      req.ClipCount,
		ClipSeconds:    req.ClipSeconds,
		AttachmentPath: req.ArchivePath,
	}

	if err := s.sender.Send(ctx, emailReq); err != nil {
		slog.ErrorContext(ctx, "delivery failed", "to", req.To.Address, "error", err)
		return err
	}

	slog.InfoContext(ctx, "mashup delivered", "to", req.To.Address, "archive", req.ArchivePath)
	return nil
}
