// Package certificates orquesta la emisión de certificados: lotes desde Excel,
// ciclo de vida (regenerar, revocar, reactivar), validación pública, ZIP y correo.
package certificates

import (
	"context"

	"github.com/jhoicas/vaxa-api/internal/domain/repository"
)

// IssueTxRunner ejecuta fn en una transacción con los repos necesarios para emitir
// un certificado: el incremento del cupo y la inserción se confirman juntos.
type IssueTxRunner interface {
	RunIssue(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		certRepo repository.CertificateRepository,
		dataRepo repository.CertificateDataRepository,
	) error) error
}

// ValidationURLFunc arma la URL pública de validación de un código (contenido del QR).
type ValidationURLFunc func(code string) string

// certificatePath ruta del PDF en el storage.
func certificatePath(companyID, code string) string {
	return "companies/" + companyID + "/certificates/" + code + ".pdf"
}
