package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// TemplateUseCase plantilla del certificado: layout, fondo y vista previa.
type TemplateUseCase struct {
	repo        repository.TemplateRepository
	companyRepo repository.CompanyRepository
	storage     ports.FileStorage
	composer    *certificates.Composer
	log         zerolog.Logger
}

// NewTemplateUseCase construye el caso de uso.
func NewTemplateUseCase(
	repo repository.TemplateRepository,
	companyRepo repository.CompanyRepository,
	storage ports.FileStorage,
	composer *certificates.Composer,
	log zerolog.Logger,
) *TemplateUseCase {
	return &TemplateUseCase{repo: repo, companyRepo: companyRepo, storage: storage, composer: composer, log: log}
}

// Get plantilla guardada o la de por defecto.
func (uc *TemplateUseCase) Get(ctx context.Context, companyID string) (*dto.TemplateResponse, error) {
	tpl, isDefault, err := uc.current(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := toTemplateResponse(tpl, isDefault)
	return &resp, nil
}

// Save valida y guarda el layout. El fondo se conserva; se cambia con UploadBackground.
func (uc *TemplateUseCase) Save(ctx context.Context, companyID string, in dto.SaveTemplateRequest) (*dto.TemplateResponse, error) {
	existing, _, err := uc.current(ctx, companyID)
	if err != nil {
		return nil, err
	}
	tpl := &entity.TemplateConfig{
		ID:             existing.ID,
		CompanyID:      companyID,
		Name:           strings.TrimSpace(in.Name),
		Orientation:    in.Orientation,
		BackgroundPath: existing.BackgroundPath,
		FontFamily:     strings.ToLower(strings.TrimSpace(in.FontFamily)),
		BodyText:       strings.TrimSpace(in.BodyText),
		ShowQR:         in.ShowQR,
		QRX:            in.QRX,
		QRY:            in.QRY,
		QRSize:         in.QRSize,
		Fields:         make([]entity.TemplateField, 0, len(in.Fields)),
	}
	if tpl.Name == "" {
		tpl.Name = existing.Name
	}
	if tpl.FontFamily == "" {
		tpl.FontFamily = "helvetica"
	}
	for _, f := range in.Fields {
		align := f.Align
		if align == "" {
			align = entity.AlignLeft
		}
		tpl.Fields = append(tpl.Fields, entity.TemplateField{
			Key:      strings.TrimSpace(f.Key),
			X:        f.X,
			Y:        f.Y,
			Width:    f.Width,
			FontSize: f.FontSize,
			Bold:     f.Bold,
			Align:    align,
			Color:    strings.ToUpper(f.Color),
		})
	}
	if err := certificate.ValidateTemplate(tpl); err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, tpl); err != nil {
		return nil, err
	}
	resp := toTemplateResponse(tpl, false)
	return &resp, nil
}

// UploadBackground guarda la imagen de fondo (PNG/JPEG, ≤ 5 MB) y la asocia a la plantilla.
func (uc *TemplateUseCase) UploadBackground(ctx context.Context, companyID string, data []byte) (*dto.TemplateResponse, error) {
	ext, err := checkImage(data)
	if err != nil {
		return nil, err
	}
	tpl, _, err := uc.current(ctx, companyID)
	if err != nil {
		return nil, err
	}
	path := assetPath(companyID, "fondo"+ext)
	if err := uc.storage.Save(ctx, path, data); err != nil {
		return nil, err
	}
	if tpl.BackgroundPath != "" && tpl.BackgroundPath != path {
		discardFile(ctx, uc.storage, uc.log, tpl.BackgroundPath)
	}
	tpl.BackgroundPath = path
	if err := uc.repo.Save(ctx, tpl); err != nil {
		return nil, err
	}
	resp := toTemplateResponse(tpl, false)
	return &resp, nil
}

// DeleteBackground quita el fondo de la plantilla.
func (uc *TemplateUseCase) DeleteBackground(ctx context.Context, companyID string) (*dto.TemplateResponse, error) {
	tpl, isDefault, err := uc.current(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if tpl.BackgroundPath == "" {
		resp := toTemplateResponse(tpl, isDefault)
		return &resp, nil
	}
	if err := uc.storage.Delete(ctx, tpl.BackgroundPath); err != nil {
		return nil, err
	}
	tpl.BackgroundPath = ""
	if err := uc.repo.Save(ctx, tpl); err != nil {
		return nil, err
	}
	resp := toTemplateResponse(tpl, false)
	return &resp, nil
}

// Preview renderiza un certificado de muestra con la plantilla vigente.
func (uc *TemplateUseCase) Preview(ctx context.Context, companyID string) ([]byte, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return uc.composer.Preview(ctx, company)
}

func (uc *TemplateUseCase) current(ctx context.Context, companyID string) (*entity.TemplateConfig, bool, error) {
	tpl, err := uc.repo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, false, err
	}
	if tpl == nil {
		return certificate.DefaultTemplate(companyID), true, nil
	}
	return tpl, false, nil
}

func toTemplateResponse(t *entity.TemplateConfig, isDefault bool) dto.TemplateResponse {
	resp := dto.TemplateResponse{
		Name:          t.Name,
		Orientation:   t.Orientation,
		FontFamily:    t.FontFamily,
		BodyText:      t.BodyText,
		ShowQR:        t.ShowQR,
		QRX:           t.QRX,
		QRY:           t.QRY,
		QRSize:        t.QRSize,
		HasBackground: t.BackgroundPath != "",
		Fields:        make([]dto.TemplateFieldDTO, 0, len(t.Fields)),
		IsDefault:     isDefault,
	}
	if !t.UpdatedAt.IsZero() {
		updated := t.UpdatedAt
		resp.UpdatedAt = &updated
	}
	for _, f := range t.Fields {
		resp.Fields = append(resp.Fields, dto.TemplateFieldDTO{
			Key:      f.Key,
			X:        f.X,
			Y:        f.Y,
			Width:    f.Width,
			FontSize: f.FontSize,
			Bold:     f.Bold,
			Align:    f.Align,
			Color:    f.Color,
		})
	}
	return resp
}
