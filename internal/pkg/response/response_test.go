package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestError_WithDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Error(c, "Purchase failed", fiber.StatusInternalServerError, errors.New("db down"))
	})
	code, out := decode(t, app, "/")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Purchase failed", out["message"])
	assert.Equal(t, "db down", out["error"])
}

func TestError_NoDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	})
	code, out := decode(t, app, "/")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Missing required fields", out["message"])
	_, hasErr := out["error"]
	assert.False(t, hasErr)
}

func TestMessageAndUnauthorized(t *testing.T) {
	app := fiber.New()
	app.Get("/msg", func(c *fiber.Ctx) error { return Message(c, fiber.StatusCreated, "done") })
	app.Get("/401", func(c *fiber.Ctx) error { return Unauthorized(c, "Not authenticated") })

	code, out := decode(t, app, "/msg")
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "done", out["message"])

	code, out = decode(t, app, "/401")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Not authenticated", out["message"])
}
