// Package mail envía correos por SMTP con gomail.
package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/pkg/config"
)

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*DisabledMailer)(nil)
)

// Dialer lo que SMTPMailer necesita de gomail.Dialer; permite sustituirlo en tests.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer implementa ports.Mailer.
type SMTPMailer struct {
	dialer   Dialer
	from     string
	fromName string
}

// NewSMTPMailer construye el mailer desde la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return NewSMTPMailerWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From, cfg.FromName)
}

// NewSMTPMailerWithDialer construye el mailer con un dialer propio.
func NewSMTPMailerWithDialer(d Dialer, from, fromName string) *SMTPMailer {
	return &SMTPMailer{dialer: d, from: from, fromName: fromName}
}

// Send arma el mensaje MIME con adjuntos y lo envía.
func (s *SMTPMailer) Send(ctx context.Context, msg ports.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("%w: destinatario vacío", domain.ErrInvalidInput)
	}
	m := Build(s.from, s.fromName, msg)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: enviar: %w", err)
	}
	return nil
}

// Build arma el gomail.Message de un ports.Mail.
func Build(from, fromName string, msg ports.Mail) *gomail.Message {
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	m.SetAddressHeader("From", from, fromName)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return m
}

// DisabledMailer se usa cuando SMTP_HOST no está configurado.
type DisabledMailer struct{}

// Send siempre devuelve domain.ErrMailerDisabled.
func (DisabledMailer) Send(context.Context, ports.Mail) error {
	return domain.ErrMailerDisabled
}
