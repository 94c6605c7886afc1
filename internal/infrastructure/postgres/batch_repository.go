package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo lotes de generación. Los errores por fila se guardan como JSONB.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador.
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, company_id, name, source_filename, total_rows, generated, failed, status,
	created_by, errors, created_at, updated_at`

func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	rowErrors, err := marshalRowErrors(b.Errors)
	if err != nil {
		return err
	}
	query := `INSERT INTO batches (` + batchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(ctx, query,
		b.ID, b.CompanyID, b.Name, b.SourceFilename, b.TotalRows, b.Generated, b.Failed, b.Status,
		b.CreatedBy, rowErrors, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	rowErrors, err := marshalRowErrors(b.Errors)
	if err != nil {
		return err
	}
	query := `
		UPDATE batches SET name = $2, total_rows = $3, generated = $4, failed = $5, status = $6,
			errors = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.Name, b.TotalRows, b.Generated, b.Failed, b.Status, rowErrors, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListByCompany más recientes primero.
func (r *BatchRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE company_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	list := []*entity.Batch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BatchRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM batches WHERE company_id = $1`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count batches: %w", err)
	}
	return n, nil
}

func marshalRowErrors(errs []entity.RowError) ([]byte, error) {
	if errs == nil {
		errs = []entity.RowError{}
	}
	raw, err := json.Marshal(errs)
	if err != nil {
		return nil, fmt.Errorf("marshal row errors: %w", err)
	}
	return raw, nil
}

func scanBatch(row pgxScanner) (*entity.Batch, error) {
	var b entity.Batch
	var rowErrors []byte
	if err := row.Scan(&b.ID, &b.CompanyID, &b.Name, &b.SourceFilename, &b.TotalRows, &b.Generated, &b.Failed,
		&b.Status, &b.CreatedBy, &rowErrors, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if len(rowErrors) > 0 {
		if err := json.Unmarshal(rowErrors, &b.Errors); err != nil {
			return nil, fmt.Errorf("unmarshal row errors: %w", err)
		}
	}
	return &b, nil
}
