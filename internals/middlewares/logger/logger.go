package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware mencatat semua request, termasuk X-Request-ID yang
// dipasang middleware timing di main.go.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[studycase] ${time} ${ip} reqid=${respHeader:X-Request-ID} ${method} ${path} - ${status} - ${latency}\n",
	})
}
