package mailer

import (
	"context"

	mail "github.com/wneessen/go-mail"

	"github.com/Sagar1205/QuickTask/internal/config"
)

// Message is one transactional email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message. Failures are returned to the caller;
// nothing is retried here.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type smtpSender struct {
	client *mail.Client
}

// NewSMTP builds a Sender over the configured SMTP relay.
func NewSMTP(cfg config.MailConfig) (Sender, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}
	return &smtpSender{client: client}, nil
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return err
	}
	if err := m.To(msg.To); err != nil {
		return err
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return s.client.DialAndSendWithContext(ctx, m)
}
