package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vaxa-api/internal/application/ports"
	"github.com/jhoicas/vaxa-api/internal/infrastructure/metrics"
)

func TestCollector_Contadores(t *testing.T) {
	c := metrics.New()

	c.CertificateGenerated(ports.ResultOK)
	c.CertificateGenerated(ports.ResultOK)
	c.CertificateGenerated(ports.ResultError)
	c.BatchFinished("completed_with_errors", 2*time.Second)
	c.CertificateRevoked()
	c.Validation(ports.ResultValid)

	expected := `
# HELP vaxa_certificates_generated_total Certificados procesados en lotes por resultado
# TYPE vaxa_certificates_generated_total counter
vaxa_certificates_generated_total{result="error"} 1
vaxa_certificates_generated_total{result="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "vaxa_certificates_generated_total"))

	count, err := testutil.GatherAndCount(c.Registry(), "vaxa_batches_total", "vaxa_certificates_revoked_total", "vaxa_validations_total", "vaxa_batch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestCollector_Handler(t *testing.T) {
	c := metrics.New()
	c.Validation(ports.ResultNotFound)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `vaxa_validations_total{result="not_found"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
