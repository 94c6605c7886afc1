package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vaxa-api/internal/domain/entity"
	"github.com/jhoicas/vaxa-api/internal/domain/repository"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/memory"
)

var errAbort = errors.New("fallo al generar el PDF")

func seedCompany(t *testing.T, repos *memory.Repositories) *entity.Company {
	t.Helper()
	c := &entity.Company{
		ID: "c-andina", Name: "Academia Andina", Slug: "academia-andina",
		Status: entity.CompanyStatusActive, PlanID: "p-basico", CertificateLimit: 100, CertificatesIssued: 10,
	}
	require.NoError(t, repos.Companies.Create(context.Background(), c))
	return c
}

func seedCertificate(t *testing.T, repos *memory.Repositories, id, code string) *entity.Certificate {
	t.Helper()
	c := &entity.Certificate{ID: id, CompanyID: "c-andina", Code: code, ParticipantName: "Laura Gómez", Status: entity.CertificateStatusActive}
	require.NoError(t, repos.Certificates.Create(context.Background(), c))
	return c
}

func TestRunIssue_RollbackConservaEscriturasAjenas(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	seedCompany(t, repos)
	revoked := seedCertificate(t, repos, "cert-1", "VX-AAAA-2222")

	err := repos.Tx.RunIssue(ctx, func(companies repository.CompanyRepository, certs repository.CertificateRepository, data repository.CertificateDataRepository) error {
		require.NoError(t, companies.IncrementIssued(ctx, "c-andina", 1))
		require.NoError(t, certs.Create(ctx, &entity.Certificate{ID: "cert-2", CompanyID: "c-andina", Code: "VX-BBBB-3333", Status: entity.CertificateStatusActive}))
		require.NoError(t, data.Replace(ctx, "cert-2", []entity.CertificateData{{CertificateID: "cert-2", Key: "ciudad", Value: "Cali"}}))

		// Otra petición revoca, emite y cambia la marca mientras la transacción sigue abierta.
		now := time.Now()
		revoked.Status = entity.CertificateStatusRevoked
		revoked.RevokedAt = &now
		require.NoError(t, repos.Certificates.Update(ctx, revoked))
		require.NoError(t, repos.Companies.IncrementIssued(ctx, "c-andina", 5))
		branded, err := repos.Companies.GetByID(ctx, "c-andina")
		require.NoError(t, err)
		branded.PrimaryColor = "#00467F"
		require.NoError(t, repos.Companies.Update(ctx, branded))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	got, err := repos.Certificates.GetByID(ctx, "cert-1")
	require.NoError(t, err)
	assert.True(t, got.IsRevoked(), "la revocación concurrente se conserva")

	created, err := repos.Certificates.GetByID(ctx, "cert-2")
	require.NoError(t, err)
	assert.Nil(t, created)
	data, err := repos.CertData.ListByCertificate(ctx, "cert-2")
	require.NoError(t, err)
	assert.Empty(t, data)

	company, err := repos.Companies.GetByID(ctx, "c-andina")
	require.NoError(t, err)
	assert.Equal(t, 15, company.CertificatesIssued, "solo se descuenta el cupo de la transacción")
	assert.Equal(t, "#00467F", company.PrimaryColor)
}

func TestRunIssue_CommitSinError(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	seedCompany(t, repos)

	err := repos.Tx.RunIssue(ctx, func(companies repository.CompanyRepository, certs repository.CertificateRepository, _ repository.CertificateDataRepository) error {
		if err := companies.IncrementIssued(ctx, "c-andina", 1); err != nil {
			return err
		}
		return certs.Create(ctx, &entity.Certificate{ID: "cert-2", CompanyID: "c-andina", Code: "VX-BBBB-3333"})
	})
	require.NoError(t, err)

	company, err := repos.Companies.GetByID(ctx, "c-andina")
	require.NoError(t, err)
	assert.Equal(t, 11, company.CertificatesIssued)
	created, err := repos.Certificates.GetByID(ctx, "cert-2")
	require.NoError(t, err)
	assert.NotNil(t, created)
}

func TestRunTenant_RollbackNoDejaEmpresa(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())

	err := repos.Tx.RunTenant(ctx, func(companies repository.CompanyRepository, users repository.UserRepository) error {
		require.NoError(t, companies.Create(ctx, &entity.Company{ID: "c-nueva", Name: "Nueva", Slug: "nueva", Status: entity.CompanyStatusActive}))
		require.NoError(t, users.Create(ctx, &entity.User{ID: "u-1", CompanyID: "c-nueva", Email: "admin@nueva.co", Role: entity.RoleAdmin}))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	company, err := repos.Companies.GetBySlug(ctx, "nueva")
	require.NoError(t, err)
	assert.Nil(t, company)
	user, err := repos.Users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCompanyUpdate_NoPisaContadorNiPlan(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	stale := seedCompany(t, repos)
	require.NoError(t, repos.Companies.IncrementIssued(ctx, "c-andina", 3))

	stale.Name = "Academia Andina Internacional"
	stale.CertificateLimit = 5
	require.NoError(t, repos.Companies.Update(ctx, stale))

	got, err := repos.Companies.GetByID(ctx, "c-andina")
	require.NoError(t, err)
	assert.Equal(t, "Academia Andina Internacional", got.Name)
	assert.Equal(t, 13, got.CertificatesIssued)
	assert.Equal(t, 100, got.CertificateLimit)
}
