package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo catálogo de planes. price es NUMERIC y se lee como decimal.Decimal
// gracias al codec registrado en NewPool.
type PlanRepo struct {
	q Querier
}

// NewPlanRepository construye el adaptador.
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

const planColumns = `id, code, name, description, certificate_limit, price, currency, is_active, created_at, updated_at`

func (r *PlanRepo) Create(ctx context.Context, p *entity.Plan) error {
	_, err := r.q.Exec(ctx, `INSERT INTO plans (`+planColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Code, p.Name, p.Description, p.CertificateLimit, p.Price, p.Currency, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
}

func (r *PlanRepo) GetByCode(ctx context.Context, code string) (*entity.Plan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM plans WHERE code = $1`, code)
}

func (r *PlanRepo) ListActive(ctx context.Context) ([]*entity.Plan, error) {
	rows, err := r.q.Query(ctx, `SELECT `+planColumns+` FROM plans WHERE is_active ORDER BY price`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	list := []*entity.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PlanRepo) getOne(ctx context.Context, query string, arg string) (*entity.Plan, error) {
	p, err := scanPlan(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

func scanPlan(row pgxScanner) (*entity.Plan, error) {
	var p entity.Plan
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.CertificateLimit, &p.Price,
		&p.Currency, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
