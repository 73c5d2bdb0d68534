package rayid

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(New())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("ray_id").(string))
	})
	return app
}

func TestRayIDAssigned(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("GET", "/ping", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)

	rid := resp.Header.Get(Header)
	_, err = uuid.Parse(rid)
	assert.NoError(t, err)
}

func TestRayIDPropagated(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(Header, "ray-from-client")
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)

	assert.Equal(t, "ray-from-client", resp.Header.Get(Header))
}
