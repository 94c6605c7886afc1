package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, slug, nit, email, phone, address, status, plan_id,
	certificate_limit, certificates_issued, plan_expires_at, primary_color, secondary_color,
	logo_path, created_at, updated_at`

// Create persiste una nueva empresa. Un slug repetido devuelve domain.ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.NIT, c.Email, c.Phone, c.Address, c.Status, c.PlanID,
		c.CertificateLimit, c.CertificatesIssued, c.PlanExpiresAt, c.PrimaryColor, c.SecondaryColor,
		c.LogoPath, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetBySlug obtiene una empresa por su slug público.
func (r *CompanyRepo) GetBySlug(ctx context.Context, slug string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE slug = $1`, slug))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by slug: %w", err)
	}
	return c, nil
}

// Update actualiza datos, estado y marca. Plan, cupo y certificates_issued
// solo cambian con UpdatePlan e IncrementIssued.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, slug = $3, nit = $4, email = $5, phone = $6, address = $7,
			status = $8, primary_color = $9, secondary_color = $10, logo_path = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Slug, c.NIT, c.Email, c.Phone, c.Address,
		c.Status, c.PrimaryColor, c.SecondaryColor, c.LogoPath, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePlan asigna plan, cupo, vencimiento y estado en un único UPDATE. Con resetIssued
// reinicia el contador; si no, falla con domain.ErrConflict cuando lo ya emitido supera el nuevo cupo.
func (r *CompanyRepo) UpdatePlan(ctx context.Context, c *entity.Company, resetIssued bool) error {
	query := `
		UPDATE companies
		SET plan_id = $2, certificate_limit = $3, plan_expires_at = $4, status = $5, updated_at = $6,
			certificates_issued = CASE WHEN $7 THEN 0 ELSE certificates_issued END
		WHERE id = $1 AND ($7 OR $3 = 0 OR certificates_issued <= $3)`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.PlanID, c.CertificateLimit, c.PlanExpiresAt, c.Status, c.UpdatedAt, resetIssued,
	)
	if err != nil {
		return fmt.Errorf("update company plan: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)`, c.ID).Scan(&exists); err != nil {
		return fmt.Errorf("update company plan: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

// List lista empresas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	list := []*entity.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// IncrementIssued suma n en un único UPDATE condicionado al cupo, así dos lotes
// concurrentes no pueden pasar el límite. Sin filas afectadas: empresa inexistente o cupo agotado.
func (r *CompanyRepo) IncrementIssued(ctx context.Context, companyID string, n int) error {
	query := `
		UPDATE companies
		SET certificates_issued = certificates_issued + $2, updated_at = NOW()
		WHERE id = $1 AND (certificate_limit = 0 OR certificates_issued + $2 <= certificate_limit)`
	tag, err := r.q.Exec(ctx, query, companyID, n)
	if err != nil {
		return fmt.Errorf("increment issued: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)`, companyID).Scan(&exists); err != nil {
		return fmt.Errorf("increment issued: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrPlanLimitExceeded
}

func scanCompany(row pgxScanner) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.NIT, &c.Email, &c.Phone, &c.Address, &c.Status, &c.PlanID,
		&c.CertificateLimit, &c.CertificatesIssued, &c.PlanExpiresAt, &c.PrimaryColor, &c.SecondaryColor,
		&c.LogoPath, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
