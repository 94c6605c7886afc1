package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo lotes en memoria.
type BatchRepo struct{ s *Store }

func (r *BatchRepo) Create(_ context.Context, b *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.batches[b.ID] = cloneBatch(*b)
	return nil
}

func (r *BatchRepo) Update(_ context.Context, b *entity.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.batches[b.ID] = cloneBatch(*b)
	return nil
}

func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	b = cloneBatch(b)
	return &b, nil
}

func (r *BatchRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Batch{}
	for _, b := range r.s.batches {
		if b.CompanyID == companyID {
			b := cloneBatch(b)
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *BatchRepo) CountByCompany(_ context.Context, companyID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, b := range r.s.batches {
		if b.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func cloneBatch(b entity.Batch) entity.Batch {
	b.Errors = append([]entity.RowError{}, b.Errors...)
	return b
}
