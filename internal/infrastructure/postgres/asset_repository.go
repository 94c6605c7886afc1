package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

var (
	_ repository.SignatureRepository = (*SignatureRepo)(nil)
	_ repository.LogoRepository      = (*LogoRepo)(nil)
)

// ── Firmas ────────────────────────────────────────────────────────────────────

// SignatureRepo firmas digitales.
type SignatureRepo struct {
	q Querier
}

// NewSignatureRepository construye el adaptador.
func NewSignatureRepository(q Querier) *SignatureRepo {
	return &SignatureRepo{q: q}
}

const signatureColumns = `id, company_id, signer_name, signer_title, image_path, x, y, width, is_active, created_at`

func (r *SignatureRepo) Create(ctx context.Context, s *entity.Signature) error {
	_, err := r.q.Exec(ctx, `INSERT INTO signatures (`+signatureColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.CompanyID, s.SignerName, s.SignerTitle, s.ImagePath, s.X, s.Y, s.Width, s.IsActive, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert signature: %w", err)
	}
	return nil
}

func (r *SignatureRepo) GetByID(ctx context.Context, id string) (*entity.Signature, error) {
	s, err := scanSignature(r.q.QueryRow(ctx, `SELECT `+signatureColumns+` FROM signatures WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get signature: %w", err)
	}
	return s, nil
}

func (r *SignatureRepo) ListByCompany(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Signature, error) {
	rows, err := r.q.Query(ctx, `SELECT `+signatureColumns+` FROM signatures
		WHERE company_id = $1 AND (NOT $2 OR is_active) ORDER BY created_at, id`, companyID, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	defer rows.Close()
	list := []*entity.Signature{}
	for rows.Next() {
		s, err := scanSignature(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SignatureRepo) Update(ctx context.Context, s *entity.Signature) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE signatures SET signer_name = $2, signer_title = $3, image_path = $4, x = $5, y = $6,
			width = $7, is_active = $8
		WHERE id = $1`,
		s.ID, s.SignerName, s.SignerTitle, s.ImagePath, s.X, s.Y, s.Width, s.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update signature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SignatureRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM signatures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete signature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSignature(row pgxScanner) (*entity.Signature, error) {
	var s entity.Signature
	if err := row.Scan(&s.ID, &s.CompanyID, &s.SignerName, &s.SignerTitle, &s.ImagePath, &s.X, &s.Y,
		&s.Width, &s.IsActive, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// ── Logos ─────────────────────────────────────────────────────────────────────

// LogoRepo logos de marca.
type LogoRepo struct {
	q Querier
}

// NewLogoRepository construye el adaptador.
func NewLogoRepository(q Querier) *LogoRepo {
	return &LogoRepo{q: q}
}

const logoColumns = `id, company_id, name, image_path, x, y, width, is_active, created_at`

func (r *LogoRepo) Create(ctx context.Context, l *entity.Logo) error {
	_, err := r.q.Exec(ctx, `INSERT INTO logos (`+logoColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.CompanyID, l.Name, l.ImagePath, l.X, l.Y, l.Width, l.IsActive, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert logo: %w", err)
	}
	return nil
}

func (r *LogoRepo) GetByID(ctx context.Context, id string) (*entity.Logo, error) {
	l, err := scanLogo(r.q.QueryRow(ctx, `SELECT `+logoColumns+` FROM logos WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get logo: %w", err)
	}
	return l, nil
}

func (r *LogoRepo) ListByCompany(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Logo, error) {
	rows, err := r.q.Query(ctx, `SELECT `+logoColumns+` FROM logos
		WHERE company_id = $1 AND (NOT $2 OR is_active) ORDER BY created_at, id`, companyID, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list logos: %w", err)
	}
	defer rows.Close()
	list := []*entity.Logo{}
	for rows.Next() {
		l, err := scanLogo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan logo: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LogoRepo) Update(ctx context.Context, l *entity.Logo) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE logos SET name = $2, image_path = $3, x = $4, y = $5, width = $6, is_active = $7
		WHERE id = $1`,
		l.ID, l.Name, l.ImagePath, l.X, l.Y, l.Width, l.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LogoRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM logos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete logo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLogo(row pgxScanner) (*entity.Logo, error) {
	var l entity.Logo
	if err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.ImagePath, &l.X, &l.Y, &l.Width, &l.IsActive,
		&l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
