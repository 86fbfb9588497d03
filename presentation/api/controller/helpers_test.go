package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/product-analytics/domain/account"
	"github.com/product-analytics/presentation/api/middleware"
	"github.com/stretchr/testify/require"
)

const testTeamID int64 = 7

var testUser = &account.User{ID: 3, TeamID: testTeamID, Email: "owner@example.com"}

// newAuthedApp returns an app whose /api group behaves as if testUser had
// authenticated.
func newAuthedApp() (*fiber.App, fiber.Router) {
	app := fiber.New()
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUser, testUser)
		return c.Next()
	})
	return app, api
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewReader([]byte(b))
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
