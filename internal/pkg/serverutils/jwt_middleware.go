package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ParseAdminToken verifies an admin access token: HMAC signed with the
// injected secret and carrying role=admin. Shared by the HTTP middleware
// and the websocket handshake, which receives the token before upgrading.
func ParseAdminToken(tokenStr, jwtSecret string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return jwt.ErrTokenInvalidClaims
	}
	return nil
}

// AdminJwtMiddleware guards the admin surface. The token is issued by the
// admin login exchange and must carry role=admin. The secret is injected,
// not read from the environment.
func AdminJwtMiddleware(jwtSecret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "missing token"))
		}

		if err := ParseAdminToken(authHeader[7:], jwtSecret); err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "invalid token"))
		}

		ctx.Locals("admin", true)
		return ctx.Next()
	}
}
