package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/vaxa-api/internal/application/certificates"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

var (
	_ certificates.IssueTxRunner = (*TxRunner)(nil)
	_ usecase.TenantTxRunner     = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunIssue ejecuta fn con repos atados a la tx: cupo, certificado y datos se confirman juntos.
func (r *TxRunner) RunIssue(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	certRepo repository.CertificateRepository,
	dataRepo repository.CertificateDataRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewCertificateRepository(tx), NewCertificateDataRepository(tx))
	})
}

// RunTenant inserta empresa y administrador en la misma transacción.
func (r *TxRunner) RunTenant(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewUserRepository(tx))
	})
}

// run hace Commit si fn termina sin error y Rollback en cualquier otro caso.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
