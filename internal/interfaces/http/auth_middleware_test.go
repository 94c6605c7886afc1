package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vaxa-api/internal/domain"
	apphttp "github.com/jhoicas/vaxa-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/vaxa-api/pkg/jwt"
)

const (
	testJWTSecret = "vaxa-http-secret-pruebas"
	testUserID    = "u-laura"
	testCompanyID = "c-andina"
	testIssuer    = "vaxa-test"
)

// tokenForRole cabecera Authorization para un usuario de c-andina con el rol dado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	otherSecret, err := pkgjwt.Generate("otro-secret", testUserID, testCompanyID, "admin", testIssuer, 60)
	require.NoError(t, err)

	cases := []struct {
		name    string
		allowed []string
		header  string
		status  int
		code    string
	}{
		{"admin en ruta de admin", []string{"admin"}, tokenForRole(t, "admin"), http.StatusOK, ""},
		{"operador en ruta compartida", []string{"admin", "operador"}, tokenForRole(t, "operador"), http.StatusOK, ""},
		{"operador no revoca", []string{"admin"}, tokenForRole(t, "operador"), http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{"admin"}, tokenForRole(t, ""), http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin cabecera", []string{"admin"}, "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema Basic", []string{"admin"}, "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"malformado", []string{"admin"}, "Bearer token.invalido.aqui", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"firmado con otro secret", []string{"admin"}, "Bearer " + otherSecret, http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/protected",
				apphttp.AuthMiddleware(testJWTSecret),
				apphttp.RequireRole(tc.allowed...),
				func(c *fiber.Ctx) error {
					return c.JSON(fiber.Map{
						"user_id":    apphttp.GetUserID(c),
						"company_id": apphttp.GetCompanyID(c),
						"role":       apphttp.GetRole(c),
					})
				},
			)
			resp := doRequest(t, app, tc.header)
			defer resp.Body.Close()
			require.Equal(t, tc.status, resp.StatusCode)

			if tc.status != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.code)
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, testUserID, body["user_id"])
			assert.Equal(t, testCompanyID, body["company_id"])
		})
	}
}

type fakeChecker struct{ err error }

func (f fakeChecker) CheckActive(context.Context, string) error { return f.err }

func TestRequireActiveCompany_Estados(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"activa", nil, http.StatusOK, ""},
		{"inactiva", domain.ErrCompanyInactive, http.StatusForbidden, "COMPANY_INACTIVE"},
		{"plan vencido", domain.ErrPlanExpired, http.StatusForbidden, "PLAN_EXPIRED"},
		{"fallo de DB", errors.New("conexión rechazada"), http.StatusServiceUnavailable, "COMPANY_CHECK_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/protected",
				apphttp.AuthMiddleware(testJWTSecret),
				apphttp.RequireActiveCompany(fakeChecker{err: tc.err}),
				func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
			)
			resp := doRequest(t, app, tokenForRole(t, "admin"))
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
		})
	}
}

func TestRequireAdminKey(t *testing.T) {
	build := func(key string) *fiber.App {
		app := fiber.New()
		app.Get("/platform", apphttp.RequireAdminKey(key), func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
		return app
	}
	call := func(app *fiber.App, header string) int {
		req := httptest.NewRequest(http.MethodGet, "/platform", nil)
		if header != "" {
			req.Header.Set("X-Admin-Key", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusServiceUnavailable, call(build(""), "cualquiera"), "sin clave configurada la plataforma queda deshabilitada")
	assert.Equal(t, http.StatusUnauthorized, call(build("s3creta"), ""))
	assert.Equal(t, http.StatusUnauthorized, call(build("s3creta"), "otra"))
	assert.Equal(t, http.StatusOK, call(build("s3creta"), "s3creta"))
}
