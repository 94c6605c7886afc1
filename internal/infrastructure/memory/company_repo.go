package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.PlanRepository    = (*PlanRepo)(nil)
)

// CompanyRepo empresas en memoria.
type CompanyRepo struct {
	s *Store
	j *journal
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.Slug == c.Slug {
			return domain.ErrDuplicate
		}
	}
	r.j.company(r.s, c.ID)
	r.s.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) GetBySlug(_ context.Context, slug string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.companies {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

// Update conserva plan, cupo y contador del registro guardado, igual que el UPDATE de PostgreSQL.
func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.companies[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *c
	next.PlanID = stored.PlanID
	next.CertificateLimit = stored.CertificateLimit
	next.CertificatesIssued = stored.CertificatesIssued
	next.PlanExpiresAt = stored.PlanExpiresAt
	next.CreatedAt = stored.CreatedAt
	r.j.company(r.s, c.ID)
	r.s.companies[c.ID] = next
	return nil
}

func (r *CompanyRepo) UpdatePlan(_ context.Context, c *entity.Company, resetIssued bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.companies[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if resetIssued {
		stored.CertificatesIssued = 0
	} else if c.CertificateLimit > 0 && stored.CertificatesIssued > c.CertificateLimit {
		return domain.ErrConflict
	}
	stored.PlanID = c.PlanID
	stored.CertificateLimit = c.CertificateLimit
	stored.PlanExpiresAt = c.PlanExpiresAt
	stored.Status = c.Status
	stored.UpdatedAt = c.UpdatedAt
	r.j.company(r.s, c.ID)
	r.s.companies[c.ID] = stored
	return nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		c := c
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

// IncrementIssued aplica la misma guarda que el UPDATE condicional de PostgreSQL.
func (r *CompanyRepo) IncrementIssued(_ context.Context, companyID string, n int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[companyID]
	if !ok {
		return domain.ErrNotFound
	}
	if c.CertificateLimit > 0 && c.CertificatesIssued+n > c.CertificateLimit {
		return domain.ErrPlanLimitExceeded
	}
	c.CertificatesIssued += n
	r.j.issuedDelta(companyID, n)
	r.s.companies[companyID] = c
	return nil
}

// PlanRepo catálogo de planes en memoria.
type PlanRepo struct{ s *Store }

func (r *PlanRepo) Create(_ context.Context, p *entity.Plan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.plans {
		if existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.plans[p.ID] = *p
	return nil
}

func (r *PlanRepo) GetByID(_ context.Context, id string) (*entity.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PlanRepo) GetByCode(_ context.Context, code string) (*entity.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.plans {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PlanRepo) ListActive(_ context.Context) ([]*entity.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Plan{}
	for _, p := range r.s.plans {
		if p.IsActive {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	return out, nil
}
