package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/insumos-api/pkg/logger"
)

// RequestLogger registra una línea por petición con método, ruta, status, latencia y funcionario.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		if msg := localString(c, LocalError); msg != "" {
			ev = ev.Str("error", msg)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("staff_id", GetStaffID(c)).
			Msg("http request")
		return nil
	}
}
