package helperAuth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Kunci locals yang dihidrasi middleware AuthJWT
const (
	LocUserID = "user_id"
	LocRole   = "role"
)

// GetActorID mengambil user_id (uuid) dari locals.
// Return 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetActorID(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
}

// GetRole mengambil role dari locals ("" kalau tidak ada).
func GetRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRole).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
