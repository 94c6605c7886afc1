package certificates

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/pkg/textnorm"
)

// Notifier envía certificados por correo a los participantes.
type Notifier struct {
	mailer        ports.Mailer
	storage       ports.FileStorage
	validationURL ValidationURLFunc
	log           zerolog.Logger
}

// NewNotifier construye el Notifier.
func NewNotifier(mailer ports.Mailer, storage ports.FileStorage, validationURL ValidationURLFunc, log zerolog.Logger) *Notifier {
	return &Notifier{mailer: mailer, storage: storage, validationURL: validationURL, log: log}
}

// Send envía un certificado con su PDF adjunto.
func (n *Notifier) Send(ctx context.Context, company *entity.Company, cert *entity.Certificate) error {
	if strings.TrimSpace(cert.Email) == "" {
		return fmt.Errorf("%w: el certificado no tiene correo del participante", domain.ErrInvalidInput)
	}
	if cert.IsRevoked() {
		return domain.ErrRevoked
	}
	pdf, err := n.storage.Read(ctx, cert.FilePath)
	if err != nil {
		return fmt.Errorf("notify: leer pdf: %w", err)
	}
	msg := ports.Mail{
		To:       cert.Email,
		ToName:   cert.ParticipantName,
		ReplyTo:  company.Email,
		Subject:  fmt.Sprintf("Tu certificado de %s", company.Name),
		HTMLBody: certificateMailBody(company, cert, n.validationURL(cert.Code)),
		Attachments: []ports.MailAttachment{
			{Filename: PDFFilename(cert), Data: pdf},
		},
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: enviar a %s: %w", cert.Email, err)
	}
	return nil
}

// SendAll envía cada certificado activo con correo; omite revocados y sin correo.
// Si el correo no está configurado se devuelve domain.ErrMailerDisabled sin intentar más envíos.
func (n *Notifier) SendAll(ctx context.Context, company *entity.Company, certs []*entity.Certificate) (*dto.SendResult, error) {
	res := &dto.SendResult{}
	for _, cert := range certs {
		if cert.IsRevoked() || strings.TrimSpace(cert.Email) == "" {
			res.Skipped++
			continue
		}
		if err := n.Send(ctx, company, cert); err != nil {
			if errors.Is(err, domain.ErrMailerDisabled) {
				return nil, err
			}
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", cert.Code, err))
			n.log.Warn().Err(err).Str("code", cert.Code).Msg("no se pudo enviar el certificado")
			continue
		}
		res.Sent++
	}
	return res, nil
}

// PDFFilename nombre de descarga: "<nombre-participante>_<codigo>.pdf".
func PDFFilename(cert *entity.Certificate) string {
	stem := textnorm.FileStem(cert.ParticipantName)
	if stem == "" {
		return cert.Code + ".pdf"
	}
	return stem + "_" + cert.Code + ".pdf"
}

func certificateMailBody(company *entity.Company, cert *entity.Certificate, url string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hola %s,</p>", html.EscapeString(cert.ParticipantName))
	fmt.Fprintf(&b, "<p>%s te envía el certificado", html.EscapeString(company.Name))
	if cert.Course != "" {
		fmt.Fprintf(&b, " de <strong>%s</strong>", html.EscapeString(cert.Course))
	}
	b.WriteString(". Lo encuentras adjunto a este correo.</p>")
	fmt.Fprintf(&b, `<p>Código de validación: <strong>%s</strong><br><a href="%s">Validar certificado</a></p>`,
		html.EscapeString(cert.Code), html.EscapeString(url))
	return b.String()
}
