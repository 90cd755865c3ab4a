package messaging

import (
	"context"
	"fmt"
	"io"

	"github.com/wneessen/go-mail"

	"companysite/internal/config"
)

// Attachment is a file sent along with an email.
type Attachment struct {
	Name string
	Open func() (io.ReadCloser, error)
}

type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Sender delivers one email with the given SMTP settings.
type Sender interface {
	Send(ctx context.Context, settings config.MailSettings, msg Message) error
}

// SMTPSender delivers through an SMTP relay.
type SMTPSender struct{}

func NewSMTPSender() *SMTPSender {
	return &SMTPSender{}
}

func (s *SMTPSender) Send(ctx context.Context, settings config.MailSettings, msg Message) error {
	if !settings.Configured() {
		return ErrNotConfigured
	}

	m := mail.NewMsg()
	if err := m.From(settings.From); err != nil {
		return fmt.Errorf("sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	if a := msg.Attachment; a != nil {
		rc, err := a.Open()
		if err != nil {
			return fmt.Errorf("open attachment: %w", err)
		}
		defer rc.Close()
		if err := m.AttachReader(a.Name, rc); err != nil {
			return fmt.Errorf("attach %s: %w", a.Name, err)
		}
	}

	client, err := mail.NewClient(settings.Host, clientOptions(settings)...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func clientOptions(settings config.MailSettings) []mail.Option {
	opts := []mail.Option{mail.WithPort(settings.Port)}
	switch {
	case settings.Port == 465:
		opts = append(opts, mail.WithSSL())
	case settings.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if settings.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(settings.Username),
			mail.WithPassword(settings.Password),
		)
	}
	return opts
}
