package certificates

import (
	"context"
	"fmt"
	"io"
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

const maxCodeAttempts = 5

// GenerateBatchInput datos de una carga de Excel.
type GenerateBatchInput struct {
	CompanyID string
	UserID    string
	File      io.Reader
	Filename  string
	Request   dto.GenerateBatchRequest
}

// BatchUseCase generación masiva de certificados y consultas de lotes.
type BatchUseCase struct {
	companyRepo repository.CompanyRepository
	batchRepo   repository.BatchRepository
	certRepo    repository.CertificateRepository
	tx          IssueTxRunner
	reader      ports.SpreadsheetReader
	composer    *Composer
	storage     ports.FileStorage
	notifier    *Notifier
	metrics     ports.Metrics
	maxRows     int
	log         zerolog.Logger
}

// NewBatchUseCase construye el caso de uso. maxRows <= 0 desactiva el tope de filas.
func NewBatchUseCase(
	companyRepo repository.CompanyRepository,
	batchRepo repository.BatchRepository,
	certRepo repository.CertificateRepository,
	tx IssueTxRunner,
	reader ports.SpreadsheetReader,
	composer *Composer,
	storage ports.FileStorage,
	notifier *Notifier,
	metrics ports.Metrics,
	maxRows int,
	log zerolog.Logger,
) *BatchUseCase {
	return &BatchUseCase{
		companyRepo: companyRepo,
		batchRepo:   batchRepo,
		certRepo:    certRepo,
		tx:          tx,
		reader:      reader,
		composer:    composer,
		storage:     storage,
		notifier:    notifier,
		metrics:     metrics,
		maxRows:     maxRows,
		log:         log,
	}
}

// Generate procesa el Excel fila por fila.
//
// Antes de crear el lote valida el mapeo, el tope de filas y el cupo del plan para el roster
// completo: si no alcanza, no se genera nada (domain.ErrPlanLimitExceeded). Los errores de una
// fila quedan en el reporte del lote y no detienen las demás.
func (uc *BatchUseCase) Generate(ctx context.Context, in GenerateBatchInput) (*dto.GenerateBatchResponse, error) {
	started := time.Now()

	// ── 1. Empresa y archivo ──────────────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("lote: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	roster, err := uc.reader.Read(ctx, in.File)
	if err != nil {
		return nil, err
	}

	// ── 2. Validaciones previas ───────────────────────────────────────────────
	req := in.Request
	if err := ValidateMapping(req.Mapping, roster.Headers); err != nil {
		return nil, err
	}
	if uc.maxRows > 0 && len(roster.Rows) > uc.maxRows {
		return nil, fmt.Errorf("%w: el archivo tiene %d filas y el máximo por lote es %d",
			domain.ErrTooLarge, len(roster.Rows), uc.maxRows)
	}
	if err := certificate.CheckQuota(company.CertificateLimit, company.CertificatesIssued, len(roster.Rows)); err != nil {
		return nil, err
	}
	layout, err := uc.composer.LoadLayout(ctx, company.ID)
	if err != nil {
		return nil, err
	}

	// ── 3. Lote en proceso ────────────────────────────────────────────────────
	now := time.Now()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("%s (%s)", in.Filename, now.Format("02/01/2006 15:04"))
	}
	batch := &entity.Batch{
		ID:             uuid.New().String(),
		CompanyID:      company.ID,
		Name:           name,
		SourceFilename: in.Filename,
		TotalRows:      len(roster.Rows),
		Status:         entity.BatchStatusProcessing,
		CreatedBy:      in.UserID,
		Errors:         []entity.RowError{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.batchRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("lote: crear: %w", err)
	}

	// ── 4. Filas ──────────────────────────────────────────────────────────────
	columns := newColumnIndex(roster.Headers, req.Mapping)
	for i, row := range roster.Rows {
		cert, data := columns.build(row, req)
		cert.CompanyID = company.ID
		cert.BatchID = &batch.ID

		if err := uc.issue(ctx, layout, company, cert, data); err != nil {
			batch.Failed++
			batch.Errors = append(batch.Errors, entity.RowError{Row: roster.RowNumber(i), Name: cert.ParticipantName, Message: err.Error()})
			uc.metrics.CertificateGenerated(ports.ResultError)
			continue
		}
		batch.Generated++
		uc.metrics.CertificateGenerated(ports.ResultOK)
	}

	// ── 5. Cierre ─────────────────────────────────────────────────────────────
	batch.Finish(time.Now())
	if err := uc.batchRepo.Update(ctx, batch); err != nil {
		return nil, fmt.Errorf("lote: actualizar: %w", err)
	}
	uc.metrics.BatchFinished(batch.Status, time.Since(started))
	uc.log.Info().
		Str("batch_id", batch.ID).
		Str("company_id", company.ID).
		Int("total", batch.TotalRows).
		Int("generated", batch.Generated).
		Int("failed", batch.Failed).
		Dur("elapsed", time.Since(started)).
		Msg("lote procesado")

	resp := &dto.GenerateBatchResponse{Batch: ToBatchResponse(batch)}

	if req.Notify && batch.Generated > 0 {
		certs, err := uc.certRepo.ListByBatch(ctx, batch.ID)
		if err != nil {
			return nil, fmt.Errorf("lote: listar certificados: %w", err)
		}
		sent, err := uc.notifier.SendAll(ctx, company, certs)
		if err != nil {
			// Sin SMTP el lote igual queda generado; se informa como omitidos.
			sent = &dto.SendResult{Skipped: len(certs), Errors: []string{err.Error()}}
		}
		resp.Notifications = sent
	}

	if fresh, err := uc.companyRepo.GetByID(ctx, company.ID); err == nil && fresh != nil {
		company = fresh
	}
	resp.Usage = Usage(company)
	return resp, nil
}

// issue genera código, renderiza, guarda el PDF y persiste en una transacción con el incremento del cupo.
func (uc *BatchUseCase) issue(
	ctx context.Context,
	layout *Layout,
	company *entity.Company,
	cert *entity.Certificate,
	data []entity.CertificateData,
) error {
	if strings.TrimSpace(cert.ParticipantName) == "" {
		return fmt.Errorf("%w: falta el nombre del participante", domain.ErrInvalidInput)
	}
	code, err := uniqueCode(ctx, uc.certRepo)
	if err != nil {
		return err
	}
	now := time.Now()
	cert.ID = uuid.New().String()
	cert.Code = code
	cert.Status = entity.CertificateStatusActive
	cert.FilePath = certificatePath(company.ID, code)
	cert.CreatedAt = now
	cert.UpdatedAt = now
	for i := range data {
		data[i].ID = uuid.New().String()
		data[i].CertificateID = cert.ID
	}

	pdf, err := uc.composer.Render(ctx, layout, company, cert, data)
	if err != nil {
		return err
	}
	if err := uc.storage.Save(ctx, cert.FilePath, pdf); err != nil {
		return fmt.Errorf("guardar pdf: %w", err)
	}

	err = uc.tx.RunIssue(ctx, func(
		companyRepo repository.CompanyRepository,
		certRepo repository.CertificateRepository,
		dataRepo repository.CertificateDataRepository,
	) error {
		if err := companyRepo.IncrementIssued(ctx, company.ID, 1); err != nil {
			return err
		}
		if err := certRepo.Create(ctx, cert); err != nil {
			return err
		}
		return dataRepo.Replace(ctx, cert.ID, data)
	})
	if err != nil {
		if delErr := uc.storage.Delete(ctx, cert.FilePath); delErr != nil {
			uc.log.Warn().Err(delErr).Str("path", cert.FilePath).Msg("no se pudo borrar el pdf huérfano")
		}
		return err
	}
	return nil
}

// List lotes de la empresa, más recientes primero.
func (uc *BatchUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.BatchListResponse, error) {
	page.DefaultPage()
	items, err := uc.batchRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("lote: listar: %w", err)
	}
	total, err := uc.batchRepo.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("lote: contar: %w", err)
	}
	out := make([]dto.BatchResponse, 0, len(items))
	for _, b := range items {
		out = append(out, ToBatchResponse(b))
	}
	return &dto.BatchListResponse{Items: out, Page: page.Page(total)}, nil
}

// Get lote con su reporte de errores.
func (uc *BatchUseCase) Get(ctx context.Context, companyID, batchID string) (*dto.BatchResponse, error) {
	b, err := uc.getOwned(ctx, companyID, batchID)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(b)
	return &resp, nil
}

// Send envía por correo los certificados activos del lote.
func (uc *BatchUseCase) Send(ctx context.Context, companyID, batchID string) (*dto.SendResult, error) {
	b, err := uc.getOwned(ctx, companyID, batchID)
	if err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("lote: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	certs, err := uc.certRepo.ListByBatch(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("lote: listar certificados: %w", err)
	}
	return uc.notifier.SendAll(ctx, company, certs)
}

func (uc *BatchUseCase) getOwned(ctx context.Context, companyID, batchID string) (*entity.Batch, error) {
	b, err := uc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("lote: obtener: %w", err)
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if b.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

// uniqueCode genera códigos hasta encontrar uno libre.
func uniqueCode(ctx context.Context, repo repository.CertificateRepository) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := certificate.NewCode()
		if err != nil {
			return "", err
		}
		exists, err := repo.ExistsCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("verificar código: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no se pudo generar un código único", domain.ErrConflict)
}

// ── Columnas ──────────────────────────────────────────────────────────────────

// columnIndex posiciones de los campos mapeados y de las columnas extra.
type columnIndex struct {
	fields map[string]int
	extras []extraColumn
}

// extraColumn columna no mapeada que se guarda como DatoCertificado.
type extraColumn struct {
	index int
	key   string
}

func newColumnIndex(headers []string, mapping map[string]string) columnIndex {
	pos := make(map[string]int, len(headers))
	for i, h := range headers {
		pos[h] = i
	}
	idx := columnIndex{fields: map[string]int{}}
	mapped := map[int]bool{}
	for field, header := range mapping {
		if i, ok := pos[header]; ok && header != "" {
			idx.fields[field] = i
			mapped[i] = true
		}
	}
	for i, h := range headers {
		if mapped[i] {
			continue
		}
		if key := dataKey(h); key != "" && !certificate.IsMappable(key) {
			idx.extras = append(idx.extras, extraColumn{index: i, key: certificate.DataKey(key)})
		}
	}
	return idx
}

// build arma el certificado de una fila; los campos no mapeados toman los valores por defecto del formulario.
func (c columnIndex) build(row []string, req dto.GenerateBatchRequest) (*entity.Certificate, []entity.CertificateData) {
	get := func(field, fallback string) string {
		if i, ok := c.fields[field]; ok && i < len(row) && row[i] != "" {
			return row[i]
		}
		return strings.TrimSpace(fallback)
	}
	date := req.Date
	if date == "" {
		date = time.Now().Format("02/01/2006")
	}
	cert := &entity.Certificate{
		ParticipantName: get(certificate.FieldNombre, ""),
		DocumentID:      get(certificate.FieldDocumento, ""),
		Email:           strings.ToLower(get(certificate.FieldEmail, "")),
		Course:          get(certificate.FieldCurso, req.Course),
		IssueDate:       get(certificate.FieldFecha, date),
		Hours:           get(certificate.FieldHoras, req.Hours),
	}
	data := []entity.CertificateData{}
	for _, ex := range c.extras {
		if ex.index < len(row) && row[ex.index] != "" {
			data = append(data, entity.CertificateData{Key: ex.key, Value: row[ex.index]})
		}
	}
	return cert, data
}
