package postgres

import (
	"context"
	"fmt"
	"strconv"
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

// CertificateRepo implementación del puerto CertificateRepository sobre PostgreSQL.
type CertificateRepo struct {
	q Querier
}

// NewCertificateRepository construye el adaptador.
func NewCertificateRepository(q Querier) *CertificateRepo {
	return &CertificateRepo{q: q}
}

const certificateColumns = `id, company_id, batch_id, code, participant_name, document_id, email, course,
	issue_date, hours, file_path, status, revoked_at, revoke_reason, created_at, updated_at`

func (r *CertificateRepo) Create(ctx context.Context, c *entity.Certificate) error {
	query := `INSERT INTO certificates (` + certificateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.BatchID, c.Code, c.ParticipantName, c.DocumentID, c.Email, c.Course,
		c.IssueDate, c.Hours, c.FilePath, c.Status, c.RevokedAt, c.RevokeReason, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

func (r *CertificateRepo) Update(ctx context.Context, c *entity.Certificate) error {
	query := `
		UPDATE certificates SET participant_name = $2, document_id = $3, email = $4, course = $5,
			issue_date = $6, hours = $7, file_path = $8, status = $9, revoked_at = $10,
			revoke_reason = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.ParticipantName, c.DocumentID, c.Email, c.Course, c.IssueDate, c.Hours, c.FilePath,
		c.Status, c.RevokedAt, c.RevokeReason, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update certificate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CertificateRepo) GetByID(ctx context.Context, id string) (*entity.Certificate, error) {
	return r.getOne(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE id = $1`, id)
}

func (r *CertificateRepo) GetByCode(ctx context.Context, code string) (*entity.Certificate, error) {
	return r.getOne(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE code = $1`, code)
}

func (r *CertificateRepo) ExistsCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM certificates WHERE code = $1)`, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists code: %w", err)
	}
	return exists, nil
}

// List arma el WHERE según los filtros presentes. q se compara sin tildes ni mayúsculas.
func (r *CertificateRepo) List(ctx context.Context, f entity.CertificateFilter) ([]*entity.Certificate, int, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		where = append(where, "status = "+next(f.Status))
	}
	if f.BatchID != "" {
		where = append(where, "batch_id = "+next(f.BatchID))
	}
	if q := textnorm.Fold(f.Query); q != "" {
		p := next(likePattern(q))
		where = append(where, "(unaccent(lower(participant_name)) LIKE "+p+
			" OR lower(document_id) LIKE "+p+" OR lower(code) LIKE "+p+")")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM certificates WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count certificates: %w", err)
	}

	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE ` + cond +
		` ORDER BY created_at DESC, code LIMIT ` + next(f.Limit) + ` OFFSET ` + next(f.Offset)
	list, err := r.queryMany(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *CertificateRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.Certificate, error) {
	return r.queryMany(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE batch_id = $1
		ORDER BY created_at DESC, code`, batchID)
}

// ListByIDs ignora ids ajenos a la empresa.
func (r *CertificateRepo) ListByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.Certificate, error) {
	if len(ids) == 0 {
		return []*entity.Certificate{}, nil
	}
	return r.queryMany(ctx, `SELECT `+certificateColumns+` FROM certificates
		WHERE company_id = $1 AND id = ANY($2::uuid[]) ORDER BY created_at DESC, code`, companyID, ids)
}

func (r *CertificateRepo) Stats(ctx context.Context, companyID string) (entity.CertificateStats, error) {
	var st entity.CertificateStats
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'revoked')
		FROM certificates WHERE company_id = $1`
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&st.Total, &st.Active, &st.Revoked); err != nil {
		return st, fmt.Errorf("certificate stats: %w", err)
	}
	return st, nil
}

func (r *CertificateRepo) getOne(ctx context.Context, query, arg string) (*entity.Certificate, error) {
	c, err := scanCertificate(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return c, nil
}

func (r *CertificateRepo) queryMany(ctx context.Context, query string, args ...any) ([]*entity.Certificate, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()
	list := []*entity.Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCertificate(row pgxScanner) (*entity.Certificate, error) {
	var c entity.Certificate
	if err := row.Scan(&c.ID, &c.CompanyID, &c.BatchID, &c.Code, &c.ParticipantName, &c.DocumentID, &c.Email,
		&c.Course, &c.IssueDate, &c.Hours, &c.FilePath, &c.Status, &c.RevokedAt, &c.RevokeReason,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ── Datos clave/valor ─────────────────────────────────────────────────────────

// CertificateDataRepo datos extra de cada certificado.
type CertificateDataRepo struct {
	q Querier
}

// NewCertificateDataRepository construye el adaptador.
func NewCertificateDataRepository(q Querier) *CertificateDataRepo {
	return &CertificateDataRepo{q: q}
}

// Replace borra e inserta. Debe correr dentro de una tx para que sea atómico.
func (r *CertificateDataRepo) Replace(ctx context.Context, certificateID string, data []entity.CertificateData) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM certificate_data WHERE certificate_id = $1`, certificateID); err != nil {
		return fmt.Errorf("delete certificate data: %w", err)
	}
	for _, d := range data {
		_, err := r.q.Exec(ctx,
			`INSERT INTO certificate_data (id, certificate_id, key, value) VALUES ($1, $2, $3, $4)`,
			d.ID, certificateID, d.Key, d.Value,
		)
		if err != nil {
			return fmt.Errorf("insert certificate data %q: %w", d.Key, err)
		}
	}
	return nil
}

func (r *CertificateDataRepo) ListByCertificate(ctx context.Context, certificateID string) ([]entity.CertificateData, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, certificate_id, key, value FROM certificate_data WHERE certificate_id = $1 ORDER BY key`,
		certificateID,
	)
	if err != nil {
		return nil, fmt.Errorf("list certificate data: %w", err)
	}
	defer rows.Close()
	list := []entity.CertificateData{}
	for rows.Next() {
		var d entity.CertificateData
		if err := rows.Scan(&d.ID, &d.CertificateID, &d.Key, &d.Value); err != nil {
			return nil, fmt.Errorf("scan certificate data: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
