package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

var (
	_ repository.TemplateRepository  = (*TemplateRepo)(nil)
	_ repository.SignatureRepository = (*SignatureRepo)(nil)
	_ repository.LogoRepository      = (*LogoRepo)(nil)
)

// TemplateRepo plantillas en memoria (una por empresa).
type TemplateRepo struct{ s *Store }

func (r *TemplateRepo) GetByCompany(_ context.Context, companyID string) (*entity.TemplateConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.templates[companyID]
	if !ok {
		return nil, nil
	}
	t.Fields = append([]entity.TemplateField{}, t.Fields...)
	return &t, nil
}

func (r *TemplateRepo) Save(_ context.Context, t *entity.TemplateConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.templates[t.CompanyID]; ok {
		t.ID = existing.ID
	} else if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.UpdatedAt = time.Now()
	for i := range t.Fields {
		if t.Fields[i].ID == "" {
			t.Fields[i].ID = uuid.New().String()
		}
		t.Fields[i].TemplateID = t.ID
		t.Fields[i].Position = i
	}
	stored := *t
	stored.Fields = append([]entity.TemplateField{}, t.Fields...)
	r.s.templates[t.CompanyID] = stored
	return nil
}

// SignatureRepo firmas en memoria.
type SignatureRepo struct{ s *Store }

func (r *SignatureRepo) Create(_ context.Context, sig *entity.Signature) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.signatures[sig.ID] = *sig
	return nil
}

func (r *SignatureRepo) GetByID(_ context.Context, id string) (*entity.Signature, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sig, ok := r.s.signatures[id]
	if !ok {
		return nil, nil
	}
	return &sig, nil
}

func (r *SignatureRepo) ListByCompany(_ context.Context, companyID string, onlyActive bool) ([]*entity.Signature, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Signature{}
	for _, sig := range r.s.signatures {
		if sig.CompanyID == companyID && (!onlyActive || sig.IsActive) {
			sig := sig
			out = append(out, &sig)
		}
	}
	sortByCreated(out, func(s *entity.Signature) time.Time { return s.CreatedAt })
	return out, nil
}

func (r *SignatureRepo) Update(_ context.Context, sig *entity.Signature) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.signatures[sig.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.signatures[sig.ID] = *sig
	return nil
}

func (r *SignatureRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.signatures, id)
	return nil
}

// LogoRepo logos en memoria.
type LogoRepo struct{ s *Store }

func (r *LogoRepo) Create(_ context.Context, logo *entity.Logo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.logos[logo.ID] = *logo
	return nil
}

func (r *LogoRepo) GetByID(_ context.Context, id string) (*entity.Logo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	logo, ok := r.s.logos[id]
	if !ok {
		return nil, nil
	}
	return &logo, nil
}

func (r *LogoRepo) ListByCompany(_ context.Context, companyID string, onlyActive bool) ([]*entity.Logo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Logo{}
	for _, logo := range r.s.logos {
		if logo.CompanyID == companyID && (!onlyActive || logo.IsActive) {
			logo := logo
			out = append(out, &logo)
		}
	}
	sortByCreated(out, func(l *entity.Logo) time.Time { return l.CreatedAt })
	return out, nil
}

func (r *LogoRepo) Update(_ context.Context, logo *entity.Logo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.logos[logo.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.logos[logo.ID] = *logo
	return nil
}

func (r *LogoRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.logos, id)
	return nil
}

func sortByCreated[T any](items []*T, at func(*T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool { return at(items[i]).Before(at(items[j])) })
}
