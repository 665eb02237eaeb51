package serverutils

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware authenticates analysis routes. The subject user id is placed
// in Locals("user_id") for controllers to scope queries with.
func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr, ok := bearerToken(ctx.Get("Authorization"))
	if !ok {
		return unauthorized(ctx, "Missing token")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return unauthorized(ctx, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return unauthorized(ctx, "Invalid claims")
	}
	userId, ok := claims["user_id"].(string)
	if !ok || userId == "" {
		return unauthorized(ctx, "Invalid claims")
	}

	ctx.Locals("user_id", userId)
	return ctx.Next()
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": message})
}
