// Package mailer delivers notifications over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/BruksfildServices01/tutor-scheduler/internal/config"
	"github.com/BruksfildServices01/tutor-scheduler/internal/notify"
)

type SMTPMailer struct {
	client *mail.Client
	from   string
}

func NewSMTP(cfg config.SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPMailer{client: c, from: cfg.From}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg notify.Message) error {
	out, err := buildMessage(m.from, msg)
	if err != nil {
		return err
	}
	return m.client.DialAndSendWithContext(ctx, out)
}

func buildMessage(from string, msg notify.Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)
	return out, nil
}

var _ notify.Mailer = (*SMTPMailer)(nil)
