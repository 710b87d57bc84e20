// file: internals/features/payment/gateway/route/payment_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	paymentController "studycase_backend/internals/features/payment/gateway/controller"
	"studycase_backend/internals/middlewares"
)

// PaymentUserRoutes: checkout Snap oleh user login.
func PaymentUserRoutes(r fiber.Router, db *gorm.DB) {
	h := paymentController.NewPaymentGatewayController(db)

	r.Post("/cases/:id/checkout", h.CreateCheckout)
}

// PaymentWebhookRoutes: callback Midtrans, tanpa JWT (diverifikasi signature).
func PaymentWebhookRoutes(r fiber.Router, db *gorm.DB) {
	h := paymentController.NewPaymentGatewayController(db)

	r.Post("/payments/midtrans/webhook", middlewares.WebhookRateLimiter(), h.MidtransWebhook)
}
