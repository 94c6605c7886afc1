package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// requestID lo deja el middleware requestid de Fiber en Locals.
func requestID(c *fiber.Ctx) string {
	return localString(c, "requestid")
}

// RequestLogger registra un evento por petición: método, ruta, estado, latencia y tenant.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// el ErrorHandler de Fiber todavía no escribió el estado
			_ = c.App().ErrorHandler(c, err)
		}
		status := c.Response().StatusCode()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		event.
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("company_id", GetCompanyID(c)).
			Msg("http")
		return nil
	}
}
