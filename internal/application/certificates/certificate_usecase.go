package certificates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/certificate"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// CertificateUseCase ciclo de vida de un certificado ya emitido y validación pública.
type CertificateUseCase struct {
	companyRepo   repository.CompanyRepository
	certRepo      repository.CertificateRepository
	dataRepo      repository.CertificateDataRepository
	composer      *Composer
	storage       ports.FileStorage
	cache         ports.ValidationCache
	notifier      *Notifier
	metrics       ports.Metrics
	validationURL ValidationURLFunc
	log           zerolog.Logger
}

// NewCertificateUseCase construye el caso de uso.
func NewCertificateUseCase(
	companyRepo repository.CompanyRepository,
	certRepo repository.CertificateRepository,
	dataRepo repository.CertificateDataRepository,
	composer *Composer,
	storage ports.FileStorage,
	cache ports.ValidationCache,
	notifier *Notifier,
	metrics ports.Metrics,
	validationURL ValidationURLFunc,
	log zerolog.Logger,
) *CertificateUseCase {
	return &CertificateUseCase{
		companyRepo:   companyRepo,
		certRepo:      certRepo,
		dataRepo:      dataRepo,
		composer:      composer,
		storage:       storage,
		cache:         cache,
		notifier:      notifier,
		metrics:       metrics,
		validationURL: validationURL,
		log:           log,
	}
}

// List certificados de la empresa con filtros.
func (uc *CertificateUseCase) List(ctx context.Context, companyID string, req dto.CertificateListRequest) (*dto.CertificateListResponse, error) {
	req.DefaultPage()
	if req.Status != "" && req.Status != entity.CertificateStatusActive && req.Status != entity.CertificateStatusRevoked {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, req.Status)
	}
	items, total, err := uc.certRepo.List(ctx, entity.CertificateFilter{
		CompanyID: companyID,
		Query:     strings.TrimSpace(req.Query),
		Status:    req.Status,
		BatchID:   req.BatchID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("certificados: listar: %w", err)
	}
	out := make([]dto.CertificateResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toCertificateResponse(c, nil, uc.validationURL))
	}
	return &dto.CertificateListResponse{
		Items: out,
		Page:  req.Page(total),
	}, nil
}

// Get certificado con sus datos extra.
func (uc *CertificateUseCase) Get(ctx context.Context, companyID, id string) (*dto.CertificateResponse, error) {
	cert, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	data, err := uc.dataRepo.ListByCertificate(ctx, cert.ID)
	if err != nil {
		return nil, fmt.Errorf("certificados: datos: %w", err)
	}
	resp := toCertificateResponse(cert, data, uc.validationURL)
	return &resp, nil
}

// Download devuelve el PDF guardado. Si el archivo se perdió, lo vuelve a generar.
func (uc *CertificateUseCase) Download(ctx context.Context, companyID, id string) ([]byte, string, error) {
	cert, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.readOrRender(ctx, cert)
	if err != nil {
		return nil, "", err
	}
	return pdf, PDFFilename(cert), nil
}

// Update aplica cambios del participante y sobrescrituras, y regenera el PDF.
func (uc *CertificateUseCase) Update(ctx context.Context, companyID, id string, req dto.UpdateCertificateRequest) (*dto.CertificateResponse, error) {
	cert, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if cert.IsRevoked() {
		return nil, fmt.Errorf("%w: no se puede modificar un certificado revocado", domain.ErrConflict)
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&cert.ParticipantName, req.ParticipantName)
	set(&cert.DocumentID, req.DocumentID)
	set(&cert.Email, req.Email)
	set(&cert.Course, req.Course)
	set(&cert.IssueDate, req.IssueDate)
	set(&cert.Hours, req.Hours)
	if cert.ParticipantName == "" {
		return nil, fmt.Errorf("%w: el nombre del participante es obligatorio", domain.ErrInvalidInput)
	}
	cert.Email = strings.ToLower(cert.Email)

	data, err := uc.dataRepo.ListByCertificate(ctx, cert.ID)
	if err != nil {
		return nil, fmt.Errorf("certificados: datos: %w", err)
	}
	if req.Data != nil {
		data = mergeData(cert.ID, data, req.Data)
		if err := uc.dataRepo.Replace(ctx, cert.ID, data); err != nil {
			return nil, fmt.Errorf("certificados: guardar datos: %w", err)
		}
	}
	if err := uc.rerender(ctx, cert, data); err != nil {
		return nil, err
	}
	resp := toCertificateResponse(cert, data, uc.validationURL)
	return &resp, nil
}

// Regenerate vuelve a pintar el PDF con la plantilla vigente.
func (uc *CertificateUseCase) Regenerate(ctx context.Context, companyID, id string) (*dto.CertificateResponse, error) {
	cert, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if cert.IsRevoked() {
		return nil, fmt.Errorf("%w: no se puede regenerar un certificado revocado", domain.ErrConflict)
	}
	data, err := uc.dataRepo.ListByCertificate(ctx, cert.ID)
	if err != nil {
		return nil, fmt.Errorf("certificados: datos: %w", err)
	}
	if err := uc.rerender(ctx, cert, data); err != nil {
		return nil, err
	}
	resp := toCertificateResponse(cert, data, uc.validationURL)
	return &resp, nil
}

// Revoke marca el certificado como revocado con su motivo.
func (uc *CertificateUseCase) Revoke(ctx context.Context, companyID, id, reason string) (*dto.CertificateResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo de revocación es obligatorio", domain.ErrInvalidInput)
	}
	cert, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if cert.IsRevoked() {
		return nil, fmt.Errorf("%w: el certificado ya está revocado", domain.ErrConflict)
	}
	now := time.Now()
	cert.Status = entity.CertificateStatusRevoked
	cert.RevokedAt = &now
	cert.RevokeReason = reason
	cert.UpdatedAt = now
	if err := uc.certRepo.Update(ctx, cert); err != nil {
		return nil, fmt.Errorf("certificados: revocar: %w", err)
	}
	uc.invalidate(ctx, cert.Code)
	uc.metrics.CertificateRevoked()
	resp := toCertificateResponse(cert, nil, uc.validationURL)
	return &resp, nil
}

// Reactivate devuelve un certificado revocado a estado activo.
func (uc *CertificateUseCase) Reactivate(ctx context.Context, companyID, id string) (*dto.CertificateResponse, error) {
	cert, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !cert.IsRevoked() {
		return nil, fmt.Errorf("%w: el certificado no está revocado", domain.ErrConflict)
	}
	cert.Status = entity.CertificateStatusActive
	cert.RevokedAt = nil
	cert.RevokeReason = ""
	cert.UpdatedAt = time.Now()
	if err := uc.certRepo.Update(ctx, cert); err != nil {
		return nil, fmt.Errorf("certificados: reactivar: %w", err)
	}
	uc.invalidate(ctx, cert.Code)
	resp := toCertificateResponse(cert, nil, uc.validationURL)
	return &resp, nil
}

// Email envía el certificado al correo del participante.
func (uc *CertificateUseCase) Email(ctx context.Context, companyID, id string) error {
	cert, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return err
	}
	company, err := uc.company(ctx, companyID)
	if err != nil {
		return err
	}
	if _, err := uc.readOrRender(ctx, cert); err != nil {
		return err
	}
	return uc.notifier.Send(ctx, company, cert)
}

// ── Públicos ──────────────────────────────────────────────────────────────────

// Validate consulta pública por código. Usa el cache si está disponible.
func (uc *CertificateUseCase) Validate(ctx context.Context, rawCode string) (*dto.ValidationResponse, error) {
	code := certificate.NormalizeCode(rawCode)
	if !certificate.ValidCode(code) {
		return nil, fmt.Errorf("%w: código con formato inválido", domain.ErrInvalidInput)
	}

	if cached, ok, err := uc.cache.Get(ctx, code); err != nil {
		uc.log.Warn().Err(err).Str("code", code).Msg("cache de validación no disponible")
	} else if ok {
		uc.metrics.Validation(validationResult(cached))
		return cached, nil
	}

	cert, err := uc.certRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("validar: obtener certificado: %w", err)
	}
	if cert == nil {
		uc.metrics.Validation(ports.ResultNotFound)
		return nil, domain.ErrNotFound
	}
	company, err := uc.company(ctx, cert.CompanyID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ValidationResponse{
		Code:            cert.Code,
		Valid:           !cert.IsRevoked(),
		Status:          cert.Status,
		CompanyName:     company.Name,
		CompanySlug:     company.Slug,
		ParticipantName: cert.ParticipantName,
		DocumentID:      maskDocument(cert.DocumentID),
		Course:          cert.Course,
		IssueDate:       cert.IssueDate,
		Hours:           cert.Hours,
		RevokedAt:       cert.RevokedAt,
		RevokeReason:    cert.RevokeReason,
	}
	if err := uc.cache.Set(ctx, code, resp); err != nil {
		uc.log.Warn().Err(err).Str("code", code).Msg("no se pudo cachear la validación")
	}
	uc.metrics.Validation(validationResult(resp))
	return resp, nil
}

// PublicDownload descarga pública del PDF por código; los revocados responden domain.ErrRevoked.
func (uc *CertificateUseCase) PublicDownload(ctx context.Context, rawCode string) ([]byte, string, error) {
	code := certificate.NormalizeCode(rawCode)
	if !certificate.ValidCode(code) {
		return nil, "", fmt.Errorf("%w: código con formato inválido", domain.ErrInvalidInput)
	}
	cert, err := uc.certRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("descarga: obtener certificado: %w", err)
	}
	if cert == nil {
		return nil, "", domain.ErrNotFound
	}
	if cert.IsRevoked() {
		return nil, "", domain.ErrRevoked
	}
	pdf, err := uc.readOrRender(ctx, cert)
	if err != nil {
		return nil, "", err
	}
	return pdf, PDFFilename(cert), nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (uc *CertificateUseCase) getOwned(ctx context.Context, companyID, id string) (*entity.Certificate, error) {
	cert, err := uc.certRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("certificados: obtener: %w", err)
	}
	if cert == nil {
		return nil, domain.ErrNotFound
	}
	if cert.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return cert, nil
}

func (uc *CertificateUseCase) company(ctx context.Context, id string) (*entity.Company, error) {
	company, err := uc.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("certificados: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// rerender pinta, guarda y persiste el certificado.
func (uc *CertificateUseCase) rerender(ctx context.Context, cert *entity.Certificate, data []entity.CertificateData) error {
	if _, err := uc.render(ctx, cert, data); err != nil {
		return err
	}
	cert.UpdatedAt = time.Now()
	if err := uc.certRepo.Update(ctx, cert); err != nil {
		return fmt.Errorf("certificados: actualizar: %w", err)
	}
	uc.invalidate(ctx, cert.Code)
	return nil
}

// render pinta el PDF con el layout actual de la empresa y lo guarda en el storage.
func (uc *CertificateUseCase) render(ctx context.Context, cert *entity.Certificate, data []entity.CertificateData) ([]byte, error) {
	company, err := uc.company(ctx, cert.CompanyID)
	if err != nil {
		return nil, err
	}
	layout, err := uc.composer.LoadLayout(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.composer.Render(ctx, layout, company, cert, data)
	if err != nil {
		return nil, err
	}
	if cert.FilePath == "" {
		cert.FilePath = certificatePath(cert.CompanyID, cert.Code)
	}
	if err := uc.storage.Save(ctx, cert.FilePath, pdf); err != nil {
		return nil, fmt.Errorf("certificados: guardar pdf: %w", err)
	}
	return pdf, nil
}

func (uc *CertificateUseCase) readOrRender(ctx context.Context, cert *entity.Certificate) ([]byte, error) {
	pdf, err := uc.storage.Read(ctx, cert.FilePath)
	if err == nil {
		return pdf, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("certificados: leer pdf: %w", err)
	}
	uc.log.Warn().Str("code", cert.Code).Msg("pdf no encontrado en storage, se regenera")
	data, err := uc.dataRepo.ListByCertificate(ctx, cert.ID)
	if err != nil {
		return nil, fmt.Errorf("certificados: datos: %w", err)
	}
	return uc.render(ctx, cert, data)
}

func (uc *CertificateUseCase) invalidate(ctx context.Context, code string) {
	if err := uc.cache.Invalidate(ctx, code); err != nil {
		uc.log.Warn().Err(err).Str("code", code).Msg("no se pudo invalidar el cache")
	}
}

// mergeData aplica las sobrescrituras sobre los datos existentes; valor vacío elimina la clave.
func mergeData(certID string, current []entity.CertificateData, changes map[string]string) []entity.CertificateData {
	values := make(map[string]string, len(current)+len(changes))
	for _, d := range current {
		values[d.Key] = d.Value
	}
	for k, v := range changes {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		k = certificate.DataKey(k)
		if v = strings.TrimSpace(v); v == "" {
			delete(values, k)
			continue
		}
		values[k] = v
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]entity.CertificateData, 0, len(keys))
	for _, k := range keys {
		out = append(out, entity.CertificateData{ID: uuid.New().String(), CertificateID: certID, Key: k, Value: values[k]})
	}
	return out
}

// maskDocument deja visibles solo los últimos 4 caracteres del documento.
func maskDocument(doc string) string {
	r := []rune(doc)
	if len(r) <= 4 {
		return doc
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

func validationResult(v *dto.ValidationResponse) string {
	if v.Valid {
		return ports.ResultValid
	}
	return ports.ResultRevoked
}
