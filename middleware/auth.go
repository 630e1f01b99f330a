package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func parseToken(header, secret string) (jwt.MapClaims, error) {
	if header == "" {
		return nil, fmt.Errorf("missing auth")
	}
	var tokenStr string
	fmt.Sscanf(header, "Bearer %s", &tokenStr)

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}

func setLocals(c *fiber.Ctx, claims jwt.MapClaims) error {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return fmt.Errorf("invalid sub claim")
	}
	c.Locals("user_id", uint(sub))
	if name, ok := claims["username"].(string); ok {
		c.Locals("username", name)
	}
	isAdmin, _ := claims["is_admin"].(bool)
	c.Locals("is_admin", isAdmin)
	return nil
}

func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := parseToken(c.Get("Authorization"), secret)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}
		if err := setLocals(c, claims); err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Next()
	}
}

// OptionalAuth fills the identity locals when a valid token is present but
// lets anonymous requests through. Used by the open order-creation policy.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := parseToken(c.Get("Authorization"), secret); err == nil {
			setLocals(c, claims)
		}
		return c.Next()
	}
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, ok := c.Locals("is_admin").(bool)
		if !ok || !isAdmin {
			return c.Status(403).JSON(fiber.Map{"error": "admin access required"})
		}
		return c.Next()
	}
}
