package ports

import "context"

// MailAttachment adjunto de un correo.
type MailAttachment struct {
	Filename string
	Data     []byte
}

// Mail mensaje saliente.
type Mail struct {
	To          string
	ToName      string
	ReplyTo     string
	Subject     string
	HTMLBody    string
	Attachments []MailAttachment
}

// Mailer puerto de salida para correo. Sin SMTP configurado devuelve domain.ErrMailerDisabled.
type Mailer interface {
	Send(ctx context.Context, msg Mail) error
}
