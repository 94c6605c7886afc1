package ports

import "time"

// Resultados registrados en las métricas.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultValid    = "valid"
	ResultRevoked  = "revoked"
	ResultNotFound = "not_found"
)

// Metrics contadores e histogramas del negocio.
type Metrics interface {
	CertificateGenerated(result string)
	BatchFinished(status string, elapsed time.Duration)
	CertificateRevoked()
	Validation(result string)
}
