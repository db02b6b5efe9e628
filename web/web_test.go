package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBodyLimit(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: fiber.DefaultBodyLimit},
		{in: "4MB", want: 4_000_000},
		{in: "4MiB", want: 4 * 1024 * 1024},
		{in: "512KiB", want: 512 * 1024},
		{in: "4194304", want: 4194304},
		{in: "12XB", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseBodyLimit(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseAddrDefaults(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", ParseAddr(Config{}))
	assert.Equal(t, "127.0.0.1:9000", ParseAddr(Config{Host: "127.0.0.1", Port: 9000}))
}

func TestNewFiberAppRejectsBadBodyLimit(t *testing.T) {
	_, err := NewFiberApp(Config{BodyLimit: "lots"})
	require.Error(t, err)
}

type signInBody struct {
	Email string `json:"email" validate:"required,email"`
}

func TestValidatorRejectsInvalidBody(t *testing.T) {
	app, err := NewFiberApp(Config{})
	require.NoError(t, err)
	v := NewValidator()
	app.Post("/", func(c fiber.Ctx) error {
		var body signInBody
		if err := v.Bind(c, &body); err != nil {
			return BadRequest(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var out Error
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, "BAD_REQUEST", out.Error.Code)
	assert.Equal(t, []string{"Email: email"}, out.Error.Details)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
}

func TestErrorHandlerRendersFiberErrors(t *testing.T) {
	app, err := NewFiberApp(Config{})
	require.NoError(t, err)
	app.Get("/gone", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "no such flight")
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	var out Error
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, "NOT_FOUND", out.Error.Code)
	assert.Equal(t, "no such flight", out.Error.Message)
}
