package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/vaxa-api/pkg/jwt"
)

const (
	secret    = "vaxa-jwt-secret-pruebas"
	userID    = "u-laura"
	companyID = "c-andina"
)

func TestGenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, companyID, "operador", "vaxa-test", 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, companyID, claims.CompanyID)
	assert.Equal(t, "operador", claims.Role)
	assert.Equal(t, "vaxa-test", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParse_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(secret, userID, companyID, "admin", "vaxa-test", -1)
	require.NoError(t, err)
	valid, err := pkgjwt.Generate(secret, userID, companyID, "admin", "vaxa-test", 60)
	require.NoError(t, err)
	hs512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, &pkgjwt.Claims{UserID: userID, CompanyID: companyID}).
		SignedString([]byte(secret))
	require.NoError(t, err)
	noCompany, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, &pkgjwt.Claims{UserID: userID}).
		SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"expirado", secret, expired},
		{"otro secret", "otro-secret-distinto", valid},
		{"algoritmo distinto", secret, hs512},
		{"sin empresa", secret, noCompany},
		{"basura", secret, "no.es.un.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pkgjwt.Parse(tt.secret, tt.token)
			assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
		})
	}
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", userID, companyID, "admin", "vaxa-test", 60)
	assert.ErrorIs(t, err, pkgjwt.ErrNoSecret)

	_, err = pkgjwt.Parse("", "x.y.z")
	assert.ErrorIs(t, err, pkgjwt.ErrNoSecret)
}
