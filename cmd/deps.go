package cmd

import (
	"context"
	"io"

	appmashup "mashup/application/mashup"
	appnotif "mashup/application/notification"
	"mashup/domain/notification"
	"mashup/infrastructure/archive"
	"mashup/infrastructure/config"
	"mashup/infrastructure/ffmpeg"
	"mashup/infrastructure/filesystem"
	"mashup/infrastructure/gmail"
	"mashup/infrastructure/mail"
	"mashup/infrastructure/ytdlp"
)

// newPipeline wires the production pipeline from cfg
func newPipeline(cfg *config.Config, out io.Writer) *appmashup.Service {
	return appmashup.NewService(
		ytdlp.NewDownloader(
			ytdlp.WithFormat(cfg.Download.Format),
			ytdlp.WithExecutable(cfg.Download.YTDLPPath),
		),
		ffmpeg.NewExtractor(
			ffmpeg.WithExtractorFFmpegPath(cfg.Audio.FFmpegPath),
			ffmpeg.WithExtractorBitrate(cfg.Audio.Bitrate),
		),
		ffmpeg.NewTrimmer(
			ffmpeg.WithFFmpegPath(cfg.Audio.FFmpegPath),
			ffmpeg.WithTrimBitrate(cfg.Audio.Bitrate),
		),
		ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.Audio.FFprobePath)),
		ffmpeg.NewConcatenator(ffmpeg.WithConcatFFmpegPath(cfg.Audio.FFmpegPath)),
		filesystem.NewLister(),
		filesystem.NewWorkspaceOpener(cfg.Paths.WorkRoot, cfg.Paths.VideosDir, cfg.Paths.AudioDir),
		out,
	)
}

// newEmailSender picks the configured transport. Credentials (SMTP env vars,
// Gmail OAuth files) are read at send time, so missing ones only fail delivery.
func newEmailSender(cfg *config.Config) notification.EmailSender {
	switch cfg.Email.Transport {
	case config.TransportGmail:
		from := notification.Recipient{Name: cfg.Email.FromName, Address: cfg.Email.FromAddress}
		return gmail.NewClientWithOAuth(cfg.Email.CredentialsFile, cfg.Email.TokenFile, from)
	default:
		return mail.NewSMTPSender(
			mail.EnvCredentials(cfg.Email.UserEnv, cfg.Email.PassEnv),
			mail.WithServer(cfg.Email.SMTPHost, cfg.Email.SMTPPort),
			mail.WithFromName(cfg.Email.FromName),
		)
	}
}

// newDeliverer wires the zip and email delivery service
func newDeliverer(cfg *config.Config) *appnotif.Service {
	return appnotif.NewService(archive.NewZipper(), newEmailSender(cfg))
}

// prepareDownloader installs yt-dlp when configured to and no path is pinned
func prepareDownloader(ctx context.Context, cfg *config.Config) error {
	if !cfg.Download.AutoInstall || cfg.Download.YTDLPPath != "" {
		return nil
	}
	return ytdlp.Install(ctx)
}
