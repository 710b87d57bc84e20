package middlewares

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware menangkap panic dan mengembalikan error 500.
// Panic di tengah operasi workflow tetap di-rollback oleh db.Transaction;
// di sini cukup dicatat dengan request-id supaya bisa dilacak.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			log.Printf("[PANIC] reqid=%v %s %s: %v\n%s", c.Locals("reqid"), c.Method(), c.Path(), e, debug.Stack())
		},
	})
}
