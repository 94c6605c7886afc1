package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

var _ repository.TemplateRepository = (*TemplateRepo)(nil)

// TemplateRepo plantilla de la empresa (una fila por company_id) y sus campos.
type TemplateRepo struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository necesita el pool porque Save abre su propia transacción.
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

const templateColumns = `id, company_id, name, orientation, background_path, font_family, body_text,
	show_qr, qr_x, qr_y, qr_size, updated_at`

func (r *TemplateRepo) GetByCompany(ctx context.Context, companyID string) (*entity.TemplateConfig, error) {
	var t entity.TemplateConfig
	err := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM template_configs WHERE company_id = $1`, companyID).Scan(
		&t.ID, &t.CompanyID, &t.Name, &t.Orientation, &t.BackgroundPath, &t.FontFamily, &t.BodyText,
		&t.ShowQR, &t.QRX, &t.QRY, &t.QRSize, &t.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, template_id, field_key, x, y, width, font_size, bold, align, color, position
		FROM template_fields WHERE template_id = $1 ORDER BY position`, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list template fields: %w", err)
	}
	defer rows.Close()
	t.Fields = []entity.TemplateField{}
	for rows.Next() {
		var f entity.TemplateField
		if err := rows.Scan(&f.ID, &f.TemplateID, &f.Key, &f.X, &f.Y, &f.Width, &f.FontSize, &f.Bold,
			&f.Align, &f.Color, &f.Position); err != nil {
			return nil, fmt.Errorf("scan template field: %w", err)
		}
		t.Fields = append(t.Fields, f)
	}
	return &t, rows.Err()
}

// Save hace upsert por company_id y reemplaza todos los campos en la misma transacción.
func (r *TemplateRepo) Save(ctx context.Context, t *entity.TemplateConfig) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	t.UpdatedAt = time.Now()
	upsert := `
		INSERT INTO template_configs (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (company_id) DO UPDATE SET
			name = EXCLUDED.name, orientation = EXCLUDED.orientation,
			background_path = EXCLUDED.background_path, font_family = EXCLUDED.font_family,
			body_text = EXCLUDED.body_text, show_qr = EXCLUDED.show_qr, qr_x = EXCLUDED.qr_x,
			qr_y = EXCLUDED.qr_y, qr_size = EXCLUDED.qr_size, updated_at = EXCLUDED.updated_at
		RETURNING id`
	err = tx.QueryRow(ctx, upsert,
		t.ID, t.CompanyID, t.Name, t.Orientation, t.BackgroundPath, t.FontFamily, t.BodyText,
		t.ShowQR, t.QRX, t.QRY, t.QRSize, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("upsert template: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM template_fields WHERE template_id = $1`, t.ID); err != nil {
		return fmt.Errorf("delete template fields: %w", err)
	}
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.ID == "" {
			f.ID = uuid.New().String()
		}
		f.TemplateID = t.ID
		f.Position = i
		_, err := tx.Exec(ctx, `
			INSERT INTO template_fields (id, template_id, field_key, x, y, width, font_size, bold, align, color, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			f.ID, f.TemplateID, f.Key, f.X, f.Y, f.Width, f.FontSize, f.Bold, f.Align, f.Color, f.Position,
		)
		if err != nil {
			return fmt.Errorf("insert template field %q: %w", f.Key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
