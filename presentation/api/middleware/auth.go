package middleware

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/product-analytics/application"
	"github.com/product-analytics/domain/account"
)

const (
	LocalUser = "user"

	ParamTemporaryToken = "temporary_token"
)

// Auth authenticates API requests. Cross-origin requests must carry a
// temporary_token query parameter; everything else may use HTTP Basic with
// the user's email and password.
func Auth(service application.AuthService, baseURL string) fiber.Handler {
	ownOrigin := strings.TrimRight(baseURL, "/")

	return func(c *fiber.Ctx) error {
		// The token outlives the request as a cache key.
		token := utils.CopyString(c.Query(ParamTemporaryToken))
		origin := strings.TrimRight(c.Get(fiber.HeaderOrigin), "/")

		if origin != "" && origin != ownOrigin && token == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No token"})
		}

		if token != "" {
			user, err := service.AuthenticateToken(c.Context(), token)
			if err != nil {
				if errors.Is(err, application.ErrInvalidCredentials) {
					return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "User doesnt exist"})
				}
				slog.Error("Failed to authenticate token", "requestID", c.Locals(LocalRequestID), "error", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "authentication failed"})
			}
			c.Locals(LocalUser, user)
			return c.Next()
		}

		email, password, ok := basicCredentials(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c)
		}

		user, err := service.AuthenticateBasic(c.Context(), email, password)
		if err != nil {
			if errors.Is(err, application.ErrInvalidCredentials) {
				return unauthorized(c)
			}
			slog.Error("Failed to authenticate user", "requestID", c.Locals(LocalRequestID), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "authentication failed"})
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="api"`)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
}

func basicCredentials(header string) (string, string, bool) {
	scheme, encoded, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Basic") {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}
	email, password, ok := strings.Cut(string(raw), ":")
	if !ok || email == "" {
		return "", "", false
	}
	return email, password, true
}

// CurrentUser returns the user stored by Auth, or nil on unauthenticated routes.
func CurrentUser(c *fiber.Ctx) *account.User {
	user, _ := c.Locals(LocalUser).(*account.User)
	return user
}

// TeamID returns the authenticated user's team.
func TeamID(c *fiber.Ctx) int64 {
	if user := CurrentUser(c); user != nil {
		return user.TeamID
	}
	return 0
}
