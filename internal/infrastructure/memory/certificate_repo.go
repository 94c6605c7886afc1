package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
	"github.com/jhoicas/vaxa-api/pkg/textnorm"
)

var (
	_ repository.CertificateRepository     = (*CertificateRepo)(nil)
	_ repository.CertificateDataRepository = (*CertificateDataRepo)(nil)
)

// CertificateRepo certificados en memoria.
type CertificateRepo struct {
	s *Store
	j *journal
}

func (r *CertificateRepo) Create(_ context.Context, c *entity.Certificate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.certs {
		if existing.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	r.j.cert(r.s, c.ID)
	r.s.certs[c.ID] = *c
	return nil
}

func (r *CertificateRepo) Update(_ context.Context, c *entity.Certificate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.certs[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.j.cert(r.s, c.ID)
	r.s.certs[c.ID] = *c
	return nil
}

func (r *CertificateRepo) GetByID(_ context.Context, id string) (*entity.Certificate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.certs[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CertificateRepo) GetByCode(_ context.Context, code string) (*entity.Certificate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.certs {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CertificateRepo) ExistsCode(ctx context.Context, code string) (bool, error) {
	c, err := r.GetByCode(ctx, code)
	return c != nil, err
}

// List filtra como la consulta SQL: q sin tildes ni mayúsculas sobre nombre, documento y código.
func (r *CertificateRepo) List(_ context.Context, f entity.CertificateFilter) ([]*entity.Certificate, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := textnorm.Fold(f.Query)
	out := []*entity.Certificate{}
	for _, c := range r.s.certs {
		if c.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.BatchID != "" && (c.BatchID == nil || *c.BatchID != f.BatchID) {
			continue
		}
		if q != "" &&
			!strings.Contains(textnorm.Fold(c.ParticipantName), q) &&
			!strings.Contains(textnorm.Fold(c.DocumentID), q) &&
			!strings.Contains(textnorm.Fold(c.Code), q) {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sortCertificates(out)
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *CertificateRepo) ListByBatch(_ context.Context, batchID string) ([]*entity.Certificate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Certificate{}
	for _, c := range r.s.certs {
		if c.BatchID != nil && *c.BatchID == batchID {
			c := c
			out = append(out, &c)
		}
	}
	sortCertificates(out)
	return out, nil
}

func (r *CertificateRepo) ListByIDs(_ context.Context, companyID string, ids []string) ([]*entity.Certificate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Certificate{}
	seen := map[string]bool{}
	for _, id := range ids {
		c, ok := r.s.certs[id]
		if !ok || seen[id] || c.CompanyID != companyID {
			continue
		}
		seen[id] = true
		out = append(out, &c)
	}
	return out, nil
}

func (r *CertificateRepo) Stats(_ context.Context, companyID string) (entity.CertificateStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var st entity.CertificateStats
	for _, c := range r.s.certs {
		if c.CompanyID != companyID {
			continue
		}
		st.Total++
		if c.IsRevoked() {
			st.Revoked++
		} else {
			st.Active++
		}
	}
	return st, nil
}

// sortCertificates más recientes primero y, a igual fecha, por código.
func sortCertificates(items []*entity.Certificate) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].Code < items[j].Code
	})
}

// CertificateDataRepo datos clave/valor en memoria.
type CertificateDataRepo struct {
	s *Store
	j *journal
}

func (r *CertificateDataRepo) Replace(_ context.Context, certificateID string, data []entity.CertificateData) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.j.data(r.s, certificateID)
	r.s.certData[certificateID] = append([]entity.CertificateData{}, data...)
	return nil
}

func (r *CertificateDataRepo) ListByCertificate(_ context.Context, certificateID string) ([]entity.CertificateData, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]entity.CertificateData{}, r.s.certData[certificateID]...), nil
}
