package certificates

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
	"github.com/jhoicas/vaxa-api/pkg/textnorm"
)

// ZipUseCase empaqueta PDFs de certificados para descarga masiva.
type ZipUseCase struct {
	batchRepo repository.BatchRepository
	certRepo  repository.CertificateRepository
	storage   ports.FileStorage
	archive   ports.ArchiveBuilder
}

// NewZipUseCase construye el caso de uso.
func NewZipUseCase(
	batchRepo repository.BatchRepository,
	certRepo repository.CertificateRepository,
	storage ports.FileStorage,
	archive ports.ArchiveBuilder,
) *ZipUseCase {
	return &ZipUseCase{batchRepo: batchRepo, certRepo: certRepo, storage: storage, archive: archive}
}

// BatchZip ZIP con los PDFs de un lote. Los revocados se excluyen salvo includeRevoked.
func (uc *ZipUseCase) BatchZip(ctx context.Context, companyID, batchID string, includeRevoked bool) ([]byte, string, error) {
	batch, err := uc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, "", fmt.Errorf("zip: obtener lote: %w", err)
	}
	if batch == nil {
		return nil, "", domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	certs, err := uc.certRepo.ListByBatch(ctx, batch.ID)
	if err != nil {
		return nil, "", fmt.Errorf("zip: listar certificados: %w", err)
	}
	data, err := uc.build(ctx, certs, includeRevoked)
	if err != nil {
		return nil, "", err
	}
	name := textnorm.FileStem(batch.Name)
	if name == "" {
		name = "lote"
	}
	return data, name + ".zip", nil
}

// SelectionZip ZIP con los certificados elegidos (de la misma empresa).
func (uc *ZipUseCase) SelectionZip(ctx context.Context, companyID string, ids []string, includeRevoked bool) ([]byte, string, error) {
	if len(ids) == 0 {
		return nil, "", fmt.Errorf("%w: no se seleccionaron certificados", domain.ErrInvalidInput)
	}
	certs, err := uc.certRepo.ListByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, "", fmt.Errorf("zip: listar certificados: %w", err)
	}
	data, err := uc.build(ctx, certs, includeRevoked)
	if err != nil {
		return nil, "", err
	}
	return data, "certificados_" + time.Now().Format("20060102_150405") + ".zip", nil
}

func (uc *ZipUseCase) build(ctx context.Context, certs []*entity.Certificate, includeRevoked bool) ([]byte, error) {
	entries := make([]ports.ArchiveEntry, 0, len(certs))
	used := make(map[string]int, len(certs))
	for _, c := range certs {
		if c.IsRevoked() && !includeRevoked {
			continue
		}
		pdf, err := uc.storage.Read(ctx, c.FilePath)
		if err != nil {
			return nil, fmt.Errorf("zip: leer %s: %w", c.Code, err)
		}
		entries = append(entries, ports.ArchiveEntry{Name: uniqueName(used, PDFFilename(c)), Data: pdf})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no hay certificados para descargar", domain.ErrNotFound)
	}
	return uc.archive.Build(entries)
}

// uniqueName agrega un sufijo numérico si el nombre ya está en el ZIP.
func uniqueName(used map[string]int, name string) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := ""
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name, ext = name[:i], name[i:]
	}
	return name + "_" + strconv.Itoa(n+1) + ext
}
