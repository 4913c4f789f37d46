// Package email sends notification emails over SMTP.
package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/verdavida/lawncare/internal/domains/notifications/domain"
	"github.com/verdavida/lawncare/internal/domains/notifications/ports"
)

var (
	ErrRecipientRequired = errors.New("recipient email address is required")
	ErrSubjectRequired   = errors.New("email subject is required")
	ErrTransport         = errors.New("failed to send email")
)

// Settings describes the SMTP relay and the default sender identity.
type Settings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	EnableSSL bool
	Timeout   time.Duration
}

// Sender delivers HTML emails through an SMTP relay.
type Sender struct {
	settings Settings
	logger   *slog.Logger
}

// Option configures the sender.
type Option func(*Sender)

// WithLogger sets the sender logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sender) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSender applies defaults for any unset settings.
func NewSender(settings Settings, opts ...Option) *Sender {
	if strings.TrimSpace(settings.Host) == "" {
		settings.Host = "localhost"
	}
	if settings.Port <= 0 {
		settings.Port = 1025
	}
	if strings.TrimSpace(settings.FromEmail) == "" {
		settings.FromEmail = "noreply@verdevida.com"
	}
	if strings.TrimSpace(settings.FromName) == "" {
		settings.FromName = "VerdaVida Lawn Care"
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	s := &Sender{
		settings: settings,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Send validates the message and hands it to the relay. Empty From fields use the configured identity.
func (s *Sender) Send(ctx context.Context, msg domain.Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return ErrRecipientRequired
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return ErrSubjectRequired
	}
	fromEmail := strings.TrimSpace(msg.FromEmail)
	if fromEmail == "" {
		fromEmail = s.settings.FromEmail
	}
	fromName := strings.TrimSpace(msg.FromName)
	if fromName == "" {
		fromName = s.settings.FromName
	}

	m := mail.NewMsg()
	if err := m.FromFormat(fromName, fromEmail); err != nil {
		return fmt.Errorf("%w: invalid sender %q: %w", ErrTransport, fromEmail, err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("%w: invalid recipient %q: %w", ErrTransport, to, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	client, err := mail.NewClient(s.settings.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	s.logger.InfoContext(ctx, "sending email",
		slog.String("to", to),
		slog.String("subject", msg.Subject),
		slog.String("from", fromEmail),
	)
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.ErrorContext(ctx, "smtp error sending email",
			slog.String("to", to),
			slog.String("subject", msg.Subject),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	s.logger.InfoContext(ctx, "sent email", slog.String("to", to), slog.String("subject", msg.Subject))
	return nil
}

func (s *Sender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.settings.Port),
		mail.WithTimeout(s.settings.Timeout),
	}
	if s.settings.EnableSSL {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if strings.TrimSpace(s.settings.Username) != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.settings.Username),
			mail.WithPassword(s.settings.Password),
		)
	}
	return opts
}

var _ ports.EmailSender = (*Sender)(nil)
