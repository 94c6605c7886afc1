package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// AssetUseCase firmas digitales y logos que se estampan en los certificados.
type AssetUseCase struct {
	signatureRepo repository.SignatureRepository
	logoRepo      repository.LogoRepository
	storage       ports.FileStorage
	log           zerolog.Logger
}

// NewAssetUseCase construye el caso de uso.
func NewAssetUseCase(signatureRepo repository.SignatureRepository, logoRepo repository.LogoRepository, storage ports.FileStorage, log zerolog.Logger) *AssetUseCase {
	return &AssetUseCase{signatureRepo: signatureRepo, logoRepo: logoRepo, storage: storage, log: log}
}

// ── Firmas ────────────────────────────────────────────────────────────────────

// CreateSignature guarda la imagen y registra la firma activa.
func (uc *AssetUseCase) CreateSignature(ctx context.Context, companyID string, in dto.CreateSignatureRequest, data []byte) (*dto.SignatureResponse, error) {
	name := strings.TrimSpace(in.SignerName)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre de quien firma es obligatorio", domain.ErrInvalidInput)
	}
	if err := checkPlacement(in.AssetPlacement); err != nil {
		return nil, err
	}
	ext, err := checkImage(data)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	path := assetPath(companyID, "firma_"+id+ext)
	if err := uc.storage.Save(ctx, path, data); err != nil {
		return nil, err
	}
	sig := &entity.Signature{
		ID:          id,
		CompanyID:   companyID,
		SignerName:  name,
		SignerTitle: strings.TrimSpace(in.SignerTitle),
		ImagePath:   path,
		X:           in.X,
		Y:           in.Y,
		Width:       in.Width,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := uc.signatureRepo.Create(ctx, sig); err != nil {
		discardFile(ctx, uc.storage, uc.log, path)
		return nil, err
	}
	resp := toSignatureResponse(sig)
	return &resp, nil
}

// ListSignatures todas las firmas de la empresa.
func (uc *AssetUseCase) ListSignatures(ctx context.Context, companyID string) ([]dto.SignatureResponse, error) {
	list, err := uc.signatureRepo.ListByCompany(ctx, companyID, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SignatureResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSignatureResponse(s))
	}
	return out, nil
}

// ToggleSignature activa o desactiva una firma.
func (uc *AssetUseCase) ToggleSignature(ctx context.Context, companyID, id string, active bool) (*dto.SignatureResponse, error) {
	sig, err := uc.ownedSignature(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	sig.IsActive = active
	if err := uc.signatureRepo.Update(ctx, sig); err != nil {
		return nil, err
	}
	resp := toSignatureResponse(sig)
	return &resp, nil
}

// DeleteSignature borra el registro y la imagen.
func (uc *AssetUseCase) DeleteSignature(ctx context.Context, companyID, id string) error {
	sig, err := uc.ownedSignature(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.signatureRepo.Delete(ctx, sig.ID); err != nil {
		return err
	}
	discardFile(ctx, uc.storage, uc.log, sig.ImagePath)
	return nil
}

func (uc *AssetUseCase) ownedSignature(ctx context.Context, companyID, id string) (*entity.Signature, error) {
	sig, err := uc.signatureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sig == nil || sig.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return sig, nil
}

// ── Logos ─────────────────────────────────────────────────────────────────────

// CreateLogo guarda la imagen y registra el logo activo.
func (uc *AssetUseCase) CreateLogo(ctx context.Context, companyID string, in dto.CreateLogoRequest, data []byte) (*dto.LogoResponse, error) {
	if err := checkPlacement(in.AssetPlacement); err != nil {
		return nil, err
	}
	ext, err := checkImage(data)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	path := assetPath(companyID, "logo_"+id+ext)
	if err := uc.storage.Save(ctx, path, data); err != nil {
		return nil, err
	}
	logo := &entity.Logo{
		ID:        id,
		CompanyID: companyID,
		Name:      strings.TrimSpace(in.Name),
		ImagePath: path,
		X:         in.X,
		Y:         in.Y,
		Width:     in.Width,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uc.logoRepo.Create(ctx, logo); err != nil {
		discardFile(ctx, uc.storage, uc.log, path)
		return nil, err
	}
	resp := toLogoResponse(logo)
	return &resp, nil
}

// ListLogos todos los logos de la empresa.
func (uc *AssetUseCase) ListLogos(ctx context.Context, companyID string) ([]dto.LogoResponse, error) {
	list, err := uc.logoRepo.ListByCompany(ctx, companyID, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LogoResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toLogoResponse(l))
	}
	return out, nil
}

// ToggleLogo activa o desactiva un logo.
func (uc *AssetUseCase) ToggleLogo(ctx context.Context, companyID, id string, active bool) (*dto.LogoResponse, error) {
	logo, err := uc.ownedLogo(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	logo.IsActive = active
	if err := uc.logoRepo.Update(ctx, logo); err != nil {
		return nil, err
	}
	resp := toLogoResponse(logo)
	return &resp, nil
}

// DeleteLogo borra el registro y la imagen.
func (uc *AssetUseCase) DeleteLogo(ctx context.Context, companyID, id string) error {
	logo, err := uc.ownedLogo(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := uc.logoRepo.Delete(ctx, logo.ID); err != nil {
		return err
	}
	discardFile(ctx, uc.storage, uc.log, logo.ImagePath)
	return nil
}

func (uc *AssetUseCase) ownedLogo(ctx context.Context, companyID, id string) (*entity.Logo, error) {
	logo, err := uc.logoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if logo == nil || logo.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return logo, nil
}

// checkPlacement la imagen debe empezar dentro de una página A4 en cualquier orientación.
func checkPlacement(p dto.AssetPlacement) error {
	if p.X < 0 || p.Y < 0 || p.X > 297 || p.Y > 297 {
		return fmt.Errorf("%w: posición fuera de la página", domain.ErrInvalidInput)
	}
	if p.Width <= 0 || p.Width > 297 {
		return fmt.Errorf("%w: el ancho debe estar entre 0 y 297 mm", domain.ErrInvalidInput)
	}
	return nil
}

func toSignatureResponse(s *entity.Signature) dto.SignatureResponse {
	return dto.SignatureResponse{
		ID:          s.ID,
		SignerName:  s.SignerName,
		SignerTitle: s.SignerTitle,
		X:           s.X,
		Y:           s.Y,
		Width:       s.Width,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
	}
}

func toLogoResponse(l *entity.Logo) dto.LogoResponse {
	return dto.LogoResponse{
		ID:        l.ID,
		Name:      l.Name,
		X:         l.X,
		Y:         l.Y,
		Width:     l.Width,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
	}
}
