package certificates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// Layout plantilla de una empresa con sus imágenes ya cargadas del storage.
// Se carga una vez por lote y se reutiliza en cada fila.
type Layout struct {
	Template   *entity.TemplateConfig
	Background []byte
	Images     []ports.PlacedImage
}

// Composer arma la entrada del renderer a partir de la plantilla, firmas y logos de la empresa.
type Composer struct {
	templateRepo  repository.TemplateRepository
	signatureRepo repository.SignatureRepository
	logoRepo      repository.LogoRepository
	storage       ports.FileStorage
	renderer      ports.CertificateRenderer
	validationURL ValidationURLFunc
}

// NewComposer construye el Composer.
func NewComposer(
	templateRepo repository.TemplateRepository,
	signatureRepo repository.SignatureRepository,
	logoRepo repository.LogoRepository,
	storage ports.FileStorage,
	renderer ports.CertificateRenderer,
	validationURL ValidationURLFunc,
) *Composer {
	return &Composer{
		templateRepo:  templateRepo,
		signatureRepo: signatureRepo,
		logoRepo:      logoRepo,
		storage:       storage,
		renderer:      renderer,
		validationURL: validationURL,
	}
}

// LoadLayout carga la plantilla (o la de por defecto), el fondo y las firmas y logos activos.
func (c *Composer) LoadLayout(ctx context.Context, companyID string) (*Layout, error) {
	tpl, err := c.templateRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("composer: obtener plantilla: %w", err)
	}
	if tpl == nil {
		tpl = certificate.DefaultTemplate(companyID)
	}
	layout := &Layout{Template: tpl}

	if tpl.BackgroundPath != "" {
		bg, err := c.storage.Read(ctx, tpl.BackgroundPath)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("composer: leer fondo: %w", err)
		}
		layout.Background = bg
	}

	sigs, err := c.signatureRepo.ListByCompany(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("composer: listar firmas: %w", err)
	}
	for _, s := range sigs {
		img, err := c.storage.Read(ctx, s.ImagePath)
		if err != nil {
			return nil, fmt.Errorf("composer: leer firma %s: %w", s.ID, err)
		}
		layout.Images = append(layout.Images, ports.PlacedImage{
			Data: img, X: s.X, Y: s.Y, Width: s.Width,
			Caption: s.SignerName, Subcaption: s.SignerTitle,
		})
	}

	logos, err := c.logoRepo.ListByCompany(ctx, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("composer: listar logos: %w", err)
	}
	for _, l := range logos {
		img, err := c.storage.Read(ctx, l.ImagePath)
		if err != nil {
			return nil, fmt.Errorf("composer: leer logo %s: %w", l.ID, err)
		}
		layout.Images = append(layout.Images, ports.PlacedImage{Data: img, X: l.X, Y: l.Y, Width: l.Width})
	}
	return layout, nil
}

// Render pinta el certificado con el layout dado.
func (c *Composer) Render(
	ctx context.Context,
	layout *Layout,
	company *entity.Company,
	cert *entity.Certificate,
	data []entity.CertificateData,
) ([]byte, error) {
	values := certificate.FieldValues(cert, data, company.Name, layout.Template.BodyText)
	pdf, err := c.renderer.Render(ctx, ports.RenderInput{
		Template:   layout.Template,
		Background: layout.Background,
		Values:     values,
		QRContent:  c.validationURL(cert.Code),
		Images:     layout.Images,
		Title:      "Certificado " + cert.Code,
		Author:     company.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("composer: renderizar %s: %w", cert.Code, err)
	}
	return pdf, nil
}

// Preview renderiza un certificado de muestra con la plantilla vigente de la empresa.
func (c *Composer) Preview(ctx context.Context, company *entity.Company) ([]byte, error) {
	layout, err := c.LoadLayout(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	sample := &entity.Certificate{
		Code:            certificate.CodePrefix + "-MUES-TRA2",
		ParticipantName: "Nombre del Participante",
		DocumentID:      "1.000.000.000",
		Email:           "participante@ejemplo.com",
		Course:          "Nombre del curso",
		IssueDate:       "01/01/2025",
		Hours:           "40",
	}
	return c.Render(ctx, layout, company, sample, nil)
}
