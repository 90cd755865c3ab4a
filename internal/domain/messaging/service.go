package messaging

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"companysite/internal/config"
	"companysite/internal/logging"
	"companysite/internal/session"
	"companysite/internal/storage"
)

type Service struct {
	settings      config.Provider
	sender        Sender
	uploads       *storage.Uploader
	envFile       *config.EnvFile
	publicBaseURL string
	log           logging.Logger
}

func NewService(settings config.Provider, sender Sender, uploads *storage.Uploader, envFile *config.EnvFile, publicBaseURL string, log logging.Logger) *Service {
	return &Service{
		settings:      settings,
		sender:        sender,
		uploads:       uploads,
		envFile:       envFile,
		publicBaseURL: publicBaseURL,
		log:           log,
	}
}

// Dispatch sends the email and builds the WhatsApp link independently.
// Delivery problems become notices, never errors.
func (s *Service) Dispatch(ctx context.Context, in Compose, attachment *multipart.FileHeader) Outcome {
	var out Outcome
	if !in.SendEmail && !in.SendWhatsApp {
		out.add(session.FlashWarning, "Choose email and/or WhatsApp.")
		return out
	}

	var stored *storage.Stored
	if attachment != nil {
		var err error
		stored, err = s.uploads.Save(ctx, attachment, storage.AttachmentExtensions)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrInvalidFileType):
			out.add(session.FlashError, "Invalid file type. Allowed: "+storage.AttachmentExtensions.String())
			return out
		case errors.Is(err, storage.ErrFileTooLarge):
			out.add(session.FlashError, "File is too large.")
			return out
		default:
			s.log.Error(ctx, "store message attachment failed", "error", err)
			out.add(session.FlashError, "Attachment could not be stored.")
			return out
		}
	}

	if in.SendEmail {
		s.sendEmail(ctx, in, attachment, &out)
	}

	if in.SendWhatsApp {
		var link string
		if stored != nil {
			link = absoluteURL(s.publicBaseURL, stored.URL)
		}
		wa, err := WhatsAppLink(in.Phone, in.Body, link)
		if err != nil {
			out.add(session.FlashError, "Phone number is required for WhatsApp.")
		} else {
			out.WhatsAppURL = wa
			out.add(session.FlashSuccess, "WhatsApp link generated.")
		}
	}
	return out
}

func (s *Service) sendEmail(ctx context.Context, in Compose, fh *multipart.FileHeader, out *Outcome) {
	if in.To == "" || in.Subject == "" || in.Body == "" {
		out.add(session.FlashError, "Recipient, subject and message are required for email.")
		return
	}

	msg := Message{To: in.To, Subject: in.Subject, Body: in.Body}
	if fh != nil {
		msg.Attachment = &Attachment{
			Name: storage.SanitizeName(fh.Filename),
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		}
	}

	err := s.deliver(ctx, msg)
	switch {
	case err == nil:
		out.EmailSent = true
		out.add(session.FlashSuccess, "Email sent.")
	case errors.Is(err, ErrNotConfigured):
		out.add(session.FlashWarning, "Email is not configured.")
	default:
		out.add(session.FlashWarning, "Email could not be sent.")
	}
}

// deliver reads the SMTP settings fresh for every message.
func (s *Service) deliver(ctx context.Context, msg Message) error {
	settings := s.settings.Mail()
	if !settings.Configured() {
		return ErrNotConfigured
	}
	if err := s.sender.Send(ctx, settings, msg); err != nil {
		s.log.Warn(ctx, "email delivery failed", "to", msg.To, "error", err)
		return err
	}
	s.log.Info(ctx, "email sent", "to", msg.To)
	return nil
}

func (s *Service) Settings() config.MailSettings {
	return s.settings.Mail()
}

// SaveSettings writes MAIL_* keys to the dotenv file. A blank password keeps
// the stored one.
func (s *Service) SaveSettings(ctx context.Context, f SettingsForm) error {
	port := strings.TrimSpace(f.Port)
	if port == "" {
		port = "587"
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return ErrInvalidPort
	}

	values := map[string]string{
		"MAIL_HOST":     strings.TrimSpace(f.Host),
		"MAIL_PORT":     port,
		"MAIL_USERNAME": strings.TrimSpace(f.Username),
		"MAIL_FROM":     strings.TrimSpace(f.From),
		"MAIL_USE_TLS":  strconv.FormatBool(f.UseTLS == "on"),
	}
	if f.Password != "" {
		values["MAIL_PASSWORD"] = f.Password
	}

	if err := s.envFile.Update(values); err != nil {
		return err
	}
	s.log.Info(ctx, "mail settings updated", "file", s.envFile.Path())
	return nil
}

// SendTest sends a short message to check the current settings.
func (s *Service) SendTest(ctx context.Context, to string) error {
	return s.deliver(ctx, Message{
		To:      strings.TrimSpace(to),
		Subject: "Test email",
		Body:    "This is a test message from the company site.",
	})
}
