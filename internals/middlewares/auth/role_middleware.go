package middleware

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "studycase_backend/internals/helpers/auth"
)

// RequireRoles menolak request jika role di token tidak termasuk daftar.
func RequireRoles(errMessage string, roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role := helperAuth.GetRole(c)
		if role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		if _, ok := allowed[role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, errMessage)
		}
		return c.Next()
	}
}
