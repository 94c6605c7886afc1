package http

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/domain"
)

// companyChecker es el contrato mínimo que necesita el middleware para verificar el tenant.
// Lo implementa *usecase.CompanyStatusService.
type companyChecker interface {
	CheckActive(ctx context.Context, companyID string) error
}

// RequireActiveCompany verifica que la empresa del token esté activa y con el plan vigente.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalCompanyID).
//
// Comportamiento:
//   - 403 COMPANY_INACTIVE / PLAN_EXPIRED.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
//   - Si no hay company_id en el contexto, responde 401.
func RequireActiveCompany(checker companyChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_id no encontrado en el token",
			})
		}

		err := checker.CheckActive(c.UserContext(), companyID)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, domain.ErrCompanyInactive):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "COMPANY_INACTIVE", Message: err.Error()})
		case errors.Is(err, domain.ErrPlanExpired):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PLAN_EXPIRED", Message: err.Error()})
		default:
			log.Error().Err(err).Str("company_id", companyID).Msg("verificación de empresa falló")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "COMPANY_CHECK_FAILED",
				Message: "no se pudo verificar la empresa, intente más tarde",
			})
		}
	}
}

// RequireAdminKey protege las rutas de la plataforma con el header X-Admin-Key.
// Sin ADMIN_API_KEY configurada las rutas quedan deshabilitadas.
func RequireAdminKey(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "ADMIN_DISABLED", Message: "ADMIN_API_KEY no configurada"})
		}
		given := c.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_ADMIN_KEY", Message: "X-Admin-Key inválida"})
		}
		return c.Next()
	}
}
