package controller

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// nextURL rebuilds the current request URL with the given query parameters
// replaced, keeping every other parameter as sent.
func nextURL(c *fiber.Ctx, overrides map[string]string) *string {
	values := url.Values{}
	for key, value := range c.Queries() {
		values.Set(key, value)
	}
	for key, value := range overrides {
		values.Set(key, value)
	}
	next := c.BaseURL() + c.Path() + "?" + values.Encode()
	return &next
}
