package exts

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func RequestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	event := log.Debug()
	if err != nil {
		event = event.Err(err)
	}
	event.
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Dur("latency", time.Since(start)).
		Msg("Handled request...")
	return err
}
